package token

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	coreerrors "weidex/core/errors"
)

type balanceKey struct{ asset, holder common.Address }

type allowanceKey struct{ asset, owner, spender common.Address }

type mockState struct {
	balances   map[balanceKey]*uint256.Int
	allowances map[allowanceKey]*uint256.Int
}

func newMockState() *mockState {
	return &mockState{
		balances:   make(map[balanceKey]*uint256.Int),
		allowances: make(map[allowanceKey]*uint256.Int),
	}
}

func (m *mockState) TokenBalance(asset, holder common.Address) (*uint256.Int, error) {
	if v, ok := m.balances[balanceKey{asset, holder}]; ok {
		return new(uint256.Int).Set(v), nil
	}
	return new(uint256.Int), nil
}

func (m *mockState) SetTokenBalance(asset, holder common.Address, amount *uint256.Int) error {
	m.balances[balanceKey{asset, holder}] = new(uint256.Int).Set(amount)
	return nil
}

func (m *mockState) Allowance(asset, owner, spender common.Address) (*uint256.Int, error) {
	if v, ok := m.allowances[allowanceKey{asset, owner, spender}]; ok {
		return new(uint256.Int).Set(v), nil
	}
	return new(uint256.Int), nil
}

func (m *mockState) SetAllowance(asset, owner, spender common.Address, amount *uint256.Int) error {
	m.allowances[allowanceKey{asset, owner, spender}] = new(uint256.Int).Set(amount)
	return nil
}

var (
	tokenAddr = common.HexToAddress("0x00000000000000000000000000000000000070ce")
	holder    = common.HexToAddress("0x00000000000000000000000000000000000a11ce")
	vault     = common.HexToAddress("0x000000000000000000000000000000000000face")
)

func newBook() *Book {
	book := NewBook()
	book.SetState(newMockState())
	return book
}

func TestTransferFromRequiresAllowanceAndBalance(t *testing.T) {
	book := newBook()
	contract := book.Token(tokenAddr)
	if err := book.Mint(tokenAddr, holder, big.NewInt(100)); err != nil {
		t.Fatalf("mint: %v", err)
	}

	ok, err := contract.TransferFrom(vault, holder, vault, big.NewInt(10))
	if err != nil || ok {
		t.Fatalf("expected refusal without allowance, got ok=%v err=%v", ok, err)
	}

	if err := book.Approve(tokenAddr, holder, vault, big.NewInt(150)); err != nil {
		t.Fatalf("approve: %v", err)
	}
	ok, err = contract.TransferFrom(vault, holder, vault, big.NewInt(120))
	if err != nil || ok {
		t.Fatalf("expected refusal beyond balance, got ok=%v err=%v", ok, err)
	}
	ok, err = contract.TransferFrom(vault, holder, vault, big.NewInt(60))
	if err != nil || !ok {
		t.Fatalf("expected transfer, got ok=%v err=%v", ok, err)
	}

	remaining, _ := book.Allowance(tokenAddr, holder, vault)
	if remaining.Cmp(big.NewInt(90)) != 0 {
		t.Fatalf("expected allowance 90, got %s", remaining)
	}
	held, _ := contract.BalanceOf(vault)
	if held.Cmp(big.NewInt(60)) != 0 {
		t.Fatalf("expected vault balance 60, got %s", held)
	}
}

func TestContractTransfer(t *testing.T) {
	book := newBook()
	contract := book.Token(tokenAddr)
	_ = book.Mint(tokenAddr, vault, big.NewInt(5))

	if ok, _ := contract.Transfer(vault, holder, big.NewInt(6)); ok {
		t.Fatalf("expected refusal when short")
	}
	if ok, err := contract.Transfer(vault, holder, big.NewInt(5)); err != nil || !ok {
		t.Fatalf("expected transfer, got ok=%v err=%v", ok, err)
	}
	if ok, _ := contract.Transfer(vault, holder, big.NewInt(-1)); ok {
		t.Fatalf("negative amounts must be refused")
	}
}

func TestNativeSend(t *testing.T) {
	book := newBook()
	native := book.Native()
	_ = book.Mint(NativeAsset, holder, big.NewInt(3))

	if err := native.Send(holder, vault, big.NewInt(4)); !errors.Is(err, coreerrors.ErrTransferFailed) {
		t.Fatalf("expected TRANSFER_FAILED, got %v", err)
	}
	if err := native.Send(holder, vault, big.NewInt(3)); err != nil {
		t.Fatalf("send: %v", err)
	}
	bal, _ := native.BalanceOf(vault)
	if bal.Cmp(big.NewInt(3)) != 0 {
		t.Fatalf("expected vault native balance 3, got %s", bal)
	}
}

func TestBookWithoutState(t *testing.T) {
	if err := NewBook().Mint(tokenAddr, holder, big.NewInt(1)); err == nil {
		t.Fatalf("expected error without state")
	}
}
