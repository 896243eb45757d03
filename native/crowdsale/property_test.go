package crowdsale_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"weidex/core/state"
	"weidex/native/crowdsale"
	"weidex/native/ledger"
	"weidex/native/token"
	"weidex/storage"
)

// saleModel buys into a single campaign from a handful of contributors and
// checks the raised total against the hard cap and the remaining supply.
type saleModel struct {
	mgr    *state.Manager
	led    *ledger.Engine
	engine *crowdsale.Engine
	record *crowdsale.Crowdsale
	buyers []common.Address
	sold   *big.Int
}

func TestSaleProperties(t *testing.T) {
	rapid.Check(t, rapid.Run(&saleModel{}))
}

func (m *saleModel) Init(t *rapid.T) {
	m.mgr = state.NewManager(storage.NewMemDB())
	require.NoError(t, m.mgr.SetOwner(owner))
	require.NoError(t, m.mgr.SetHeight(1))
	book := token.NewBook()
	book.SetState(m.mgr)
	m.led = ledger.NewEngine(vault)
	m.led.SetState(m.mgr)
	m.engine = crowdsale.NewEngine(vault, ledger.NativeAsset)
	m.engine.SetState(m.mgr)
	m.engine.SetLedger(m.led)
	m.engine.SetTokens(func(asset common.Address) crowdsale.Token { return book.Token(asset) })

	hardCap := rapid.Int64Range(1, 1_000).Draw(t, "hardCap").(int64)
	ratio := rapid.Int64Range(1, 50).Draw(t, "ratio").(int64)
	minimum := rapid.Int64Range(0, 10).Draw(t, "min").(int64)
	maximum := rapid.Int64Range(minimum, 400).Draw(t, "max").(int64)
	m.record = &crowdsale.Crowdsale{
		StartBlock:      2,
		EndBlock:        100,
		HardCap:         big.NewInt(hardCap),
		LeftAmount:      big.NewInt(hardCap * ratio),
		TokenRatio:      big.NewInt(ratio),
		MinContribution: big.NewInt(minimum),
		MaxContribution: big.NewInt(maximum),
		Wallet:          wallet,
	}
	require.NoError(t, book.Mint(saleTok, wallet, m.record.LeftAmount))
	require.NoError(t, book.Approve(saleTok, wallet, vault, m.record.LeftAmount))
	require.NoError(t, m.engine.Register(owner, saleTok, m.record))
	require.NoError(t, m.mgr.SetHeight(2))
	m.buyers = []common.Address{
		common.HexToAddress("0x0000000000000000000000000000000000000101"),
		common.HexToAddress("0x0000000000000000000000000000000000000102"),
		common.HexToAddress("0x0000000000000000000000000000000000000103"),
	}
	m.sold = big.NewInt(0)
}

func (m *saleModel) Buy(t *rapid.T) {
	who := m.buyers[rapid.IntRange(0, len(m.buyers)-1).Draw(t, "buyer").(int)]
	value := big.NewInt(rapid.Int64Range(0, 500).Draw(t, "value").(int64))
	snap := m.mgr.Snapshot()
	tokens, err := m.engine.BuyTokens(who, value, saleTok)
	if err != nil {
		m.mgr.RevertToSnapshot(snap)
		return
	}
	m.sold.Add(m.sold, tokens)
}

func (m *saleModel) Check(t *rapid.T) {
	record, err := m.engine.Crowdsale(saleTok)
	require.NoError(t, err)
	require.LessOrEqual(t, record.WeiRaised.Cmp(record.HardCap), 0, "raised beyond hard cap")
	require.GreaterOrEqual(t, record.LeftAmount.Sign(), 0)

	// Sold plus unsold supply always equals the registered supply.
	total := new(big.Int).Add(record.LeftAmount, m.sold)
	require.Equal(t, 0, total.Cmp(m.record.LeftAmount))
	require.Equal(t, 0, new(big.Int).Mul(record.WeiRaised, record.TokenRatio).Cmp(m.sold))

	raised, err := m.led.Balance(wallet, ledger.NativeAsset)
	require.NoError(t, err)
	require.Equal(t, 0, raised.Cmp(record.WeiRaised))
	for _, who := range m.buyers {
		contributed, err := m.engine.Contribution(saleTok, who)
		require.NoError(t, err)
		require.LessOrEqual(t, contributed.Cmp(record.MaxContribution), 0)
	}
}
