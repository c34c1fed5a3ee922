package wallets

import (
	"github.com/fulldump/minipay/database"
	"github.com/fulldump/minipay/server"
)

// Wallet is immutable, Credit and Debit return the resulting wallet.
type Wallet struct {
	id      int
	userId  int
	balance float64
}

func NewWallet(userId int, balance float64) (*Wallet, error) {
	return newWallet(0, userId, balance)
}

func newWallet(id, userId int, balance float64) (*Wallet, error) {
	if userId == 0 {
		return nil, server.BadRequest("User ID is required")
	}
	if balance < 0 {
		return nil, server.BadRequest("Balance cannot be negative")
	}
	return &Wallet{id: id, userId: userId, balance: balance}, nil
}

func FromDto(r database.Record) (database.Entity, error) {
	return newWallet(database.Int(r, "id"), database.Int(r, "userId"), database.Float(r, "balance"))
}

func (w *Wallet) Id() int          { return w.id }
func (w *Wallet) UserId() int      { return w.userId }
func (w *Wallet) Balance() float64 { return w.balance }

func (w *Wallet) Credit(amount float64) (*Wallet, error) {
	if amount <= 0 {
		return nil, server.BadRequest("Credit amount must be positive")
	}
	return newWallet(w.id, w.userId, w.balance+amount)
}

func (w *Wallet) Debit(amount float64) (*Wallet, error) {
	if amount <= 0 {
		return nil, server.BadRequest("Debit amount must be positive")
	}
	if w.balance < amount {
		return nil, server.BadRequest("Insufficient balance")
	}
	return newWallet(w.id, w.userId, w.balance-amount)
}

func (w *Wallet) ToDto() database.Record {
	r := database.Record{
		"userId":  w.userId,
		"balance": w.balance,
	}
	if w.id != 0 {
		r["id"] = w.id
	}
	return r
}

// WalletResponse is the public view of a wallet.
type WalletResponse struct {
	UserId  int     `json:"userId"`
	Balance float64 `json:"balance"`
}

func (w *Wallet) Public() WalletResponse {
	return WalletResponse{
		UserId:  w.userId,
		Balance: w.balance,
	}
}
