package service

import (
	"regexp"
	"time"

	"github.com/efreitasn/minimarket/internal/creditline"
	"github.com/efreitasn/minimarket/internal/domain"
	"github.com/efreitasn/minimarket/internal/store"
)

var (
	accountIDRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)
	symbolRegex    = regexp.MustCompile(`^[A-Z]{1,10}$`)
)

// RegisterAccountRequest represents the input for account registration.
type RegisterAccountRequest struct {
	AccountID   string
	Kind        domain.AccountKind
	InitialCash float64
}

// BalanceResponse represents the response for the account balance endpoint.
type BalanceResponse struct {
	AccountID     string
	Kind          domain.AccountKind
	CashBalance   int64
	ReservedCash  int64
	AvailableCash int64
	Holdings      []HoldingBalance
	Credit        domain.CreditLineInfo
	UpdatedAt     time.Time
}

// HoldingBalance represents a single holding in the balance response.
type HoldingBalance struct {
	Symbol            string
	Quantity          int64
	ReservedQuantity  int64
	AvailableQuantity int64
}

// AccountService handles account registration and balance queries.
type AccountService struct {
	store  *store.AccountStore
	credit *creditline.Registry
}

// NewAccountService creates a new AccountService.
func NewAccountService(store *store.AccountStore, credit *creditline.Registry) *AccountService {
	return &AccountService{
		store:  store,
		credit: credit,
	}
}

// Register validates the request and creates an account.
func (s *AccountService) Register(req RegisterAccountRequest) (*domain.Account, error) {
	if !accountIDRegex.MatchString(req.AccountID) {
		return nil, &domain.ValidationError{
			Message: "account_id must match ^[a-zA-Z0-9_-]{1,64}$",
		}
	}
	if req.Kind != domain.AccountKindHuman && req.Kind != domain.AccountKindBot {
		return nil, &domain.ValidationError{
			Message: "kind must be 'human' or 'bot'",
		}
	}
	if req.InitialCash < 0 {
		return nil, &domain.ValidationError{
			Message: "initial_cash must be >= 0",
		}
	}
	cashCents, err := domain.DollarsToCents(req.InitialCash)
	if err != nil {
		return nil, &domain.ValidationError{
			Message: "initial_cash must have at most 2 decimal places",
		}
	}

	acct := &domain.Account{
		AccountID:   req.AccountID,
		Kind:        req.Kind,
		CashBalance: cashCents,
		Holdings:    make(map[string]*domain.Holding),
		CreatedAt:   time.Now(),
	}
	if err := s.store.Create(acct); err != nil {
		return nil, err
	}
	return acct, nil
}

// GetBalance returns the account's cash, holdings, and credit-line view.
func (s *AccountService) GetBalance(accountID string) (*BalanceResponse, error) {
	acct, err := s.store.Get(accountID)
	if err != nil {
		return nil, err
	}

	acct.Mu.Lock()
	resp := &BalanceResponse{
		AccountID:     acct.AccountID,
		Kind:          acct.Kind,
		CashBalance:   acct.CashBalance,
		ReservedCash:  acct.ReservedCash,
		AvailableCash: acct.AvailableCash(),
		UpdatedAt:     time.Now(),
	}
	for sym, h := range acct.Holdings {
		resp.Holdings = append(resp.Holdings, HoldingBalance{
			Symbol:            sym,
			Quantity:          h.Quantity,
			ReservedQuantity:  h.ReservedQuantity,
			AvailableQuantity: h.Quantity - h.ReservedQuantity,
		})
	}
	acct.Mu.Unlock()

	resp.Credit = s.credit.Line(accountID).Info()
	return resp, nil
}
