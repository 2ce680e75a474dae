package usecases

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"

	"payportal.backend/internal/domain/entities"
	domainerrors "payportal.backend/internal/domain/errors"
	"payportal.backend/internal/domain/repositories"
	"payportal.backend/pkg/logger"
	"payportal.backend/pkg/sanitize"
)

// Server-side whitelist character classes, enforced independently of request
// binding as defense in depth.
var (
	recipientNameRe    = regexp.MustCompile(`^[A-Za-z\s\-\.]{2,100}$`)
	recipientAccountRe = regexp.MustCompile(`^[A-Za-z0-9\-]{8,64}$`)
	recipientCountryRe = regexp.MustCompile(`^[A-Za-z\s]{2,56}$`)
	swiftCodeRe        = regexp.MustCompile(`^[A-Z]{6}[A-Z0-9]{2}([A-Z0-9]{3})?$`)
	currencyRe         = regexp.MustCompile(`^[A-Z]{3}$`)
	purposeRe          = regexp.MustCompile(`^[A-Za-z0-9\s\-\.\,]{0,200}$`)
)

const referenceAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// PaymentUsecase is the payment transaction engine.
type PaymentUsecase struct {
	txRepo repositories.TransactionRepository
}

// NewPaymentUsecase creates a new payment usecase
func NewPaymentUsecase(txRepo repositories.TransactionRepository) *PaymentUsecase {
	return &PaymentUsecase{txRepo: txRepo}
}

// Create validates a payment request, derives the fee, assigns a unique
// reference number and persists the transaction as pending. A reference
// collision is retried once with a freshly generated number.
func (u *PaymentUsecase) Create(ctx context.Context, principal *entities.Principal, input *entities.CreatePaymentInput) (*entities.CreatePaymentResult, error) {
	if err := validatePaymentInput(input); err != nil {
		return nil, err
	}

	tx := &entities.Transaction{
		UserID:           principal.UserID,
		UserAccount:      principal.AccountNumber,
		RecipientName:    strings.TrimSpace(input.RecipientName),
		RecipientAccount: strings.ToUpper(strings.TrimSpace(input.RecipientAccount)),
		RecipientBank:    strings.TrimSpace(input.RecipientBank),
		RecipientCountry: strings.TrimSpace(input.RecipientCountry),
		SwiftCode:        strings.ToUpper(strings.TrimSpace(input.SwiftCode)),
		Amount:           input.Amount,
		Currency:         input.Currency,
		Status:           entities.TransactionStatusPending,
		TransactionFee:   input.Amount * FeeRate,
		IsProcessed:      false,
	}
	if purpose := sanitize.Clean(input.Purpose); purpose != "" {
		tx.Purpose = null.StringFrom(purpose)
	}

	// One retry on a reference-number collision, then give up.
	for attempt := 0; attempt < 2; attempt++ {
		ref, err := generateReferenceNumber()
		if err != nil {
			return nil, err
		}
		tx.ReferenceNumber = ref
		tx.ID = uuid.Nil

		err = u.txRepo.Create(ctx, tx)
		if err == nil {
			return &entities.CreatePaymentResult{
				TransactionID:   tx.ID,
				ReferenceNumber: tx.ReferenceNumber,
				TransactionFee:  tx.TransactionFee,
				Status:          tx.Status,
			}, nil
		}
		if !errors.Is(err, domainerrors.ErrAlreadyExists) {
			return nil, err
		}
		logger.Warn(ctx, "Reference number collision, retrying", zap.String("reference", ref))
	}
	return nil, fmt.Errorf("reference number collision persisted after retry: %w", domainerrors.ErrAlreadyExists)
}

// ListForUser returns the principal's transactions, newest first, capped at
// HistoryLimit.
func (u *PaymentUsecase) ListForUser(ctx context.Context, principal *entities.Principal) ([]*entities.Transaction, error) {
	return u.txRepo.ListByUser(ctx, principal.UserID, HistoryLimit)
}

// GetByID returns a transaction owned by the principal. A transaction owned
// by someone else is indistinguishable from an absent one.
func (u *PaymentUsecase) GetByID(ctx context.Context, principal *entities.Principal, id uuid.UUID) (*entities.Transaction, error) {
	tx, err := u.txRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tx.UserID != principal.UserID {
		return nil, domainerrors.ErrNotFound
	}
	return tx, nil
}

// AdminList returns transactions across all owners enriched with submitter
// identity, optionally filtered by status.
func (u *PaymentUsecase) AdminList(ctx context.Context, status string) ([]*entities.AdminTransaction, error) {
	filter := entities.TransactionStatus(status)
	switch filter {
	case "", entities.TransactionStatusPending, entities.TransactionStatusCompleted, entities.TransactionStatusRejected:
	default:
		return nil, fmt.Errorf("unknown status filter %q: %w", status, domainerrors.ErrInvalidInput)
	}
	return u.txRepo.ListAll(ctx, filter, AdminListLimit)
}

// Verify finalizes a pending transaction as completed. Verifying an
// already-completed transaction is a no-op success; a rejected one conflicts.
func (u *PaymentUsecase) Verify(ctx context.Context, id uuid.UUID) (*entities.Transaction, error) {
	return u.finalize(ctx, id, entities.TransactionStatusCompleted)
}

// Reject finalizes a pending transaction as rejected. Idempotent on an
// already-rejected transaction; a completed one conflicts.
func (u *PaymentUsecase) Reject(ctx context.Context, id uuid.UUID) (*entities.Transaction, error) {
	return u.finalize(ctx, id, entities.TransactionStatusRejected)
}

func (u *PaymentUsecase) finalize(ctx context.Context, id uuid.UUID, status entities.TransactionStatus) (*entities.Transaction, error) {
	affected, err := u.txRepo.MarkProcessed(ctx, id, status)
	if err != nil {
		return nil, err
	}

	tx, err := u.txRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if affected == 0 && tx.Status != status {
		// Already finalized into the other terminal state.
		return nil, fmt.Errorf("transaction already %s: %w", tx.Status, domainerrors.ErrAlreadyExists)
	}
	return tx, nil
}

func validatePaymentInput(input *entities.CreatePaymentInput) error {
	name := strings.TrimSpace(input.RecipientName)
	account := strings.ToUpper(strings.TrimSpace(input.RecipientAccount))
	bank := strings.TrimSpace(input.RecipientBank)
	country := strings.TrimSpace(input.RecipientCountry)
	swift := strings.ToUpper(strings.TrimSpace(input.SwiftCode))

	switch {
	case !recipientNameRe.MatchString(name):
		return fmt.Errorf("recipient name must be 2-100 letters, spaces, hyphens or dots: %w", domainerrors.ErrInvalidInput)
	case !recipientAccountRe.MatchString(account):
		return fmt.Errorf("recipient account must be 8-64 alphanumeric characters or hyphens: %w", domainerrors.ErrInvalidInput)
	case !recipientNameRe.MatchString(bank):
		return fmt.Errorf("recipient bank must be 2-100 letters, spaces, hyphens or dots: %w", domainerrors.ErrInvalidInput)
	case !recipientCountryRe.MatchString(country):
		return fmt.Errorf("recipient country must be 2-56 letters or spaces: %w", domainerrors.ErrInvalidInput)
	case len(swift) != 8 && len(swift) != 11:
		return fmt.Errorf("swift code must be exactly 8 or 11 characters: %w", domainerrors.ErrInvalidInput)
	case !swiftCodeRe.MatchString(swift):
		return fmt.Errorf("swift code format is invalid: %w", domainerrors.ErrInvalidInput)
	case input.Amount < MinPaymentAmount || input.Amount > MaxPaymentAmount:
		return fmt.Errorf("amount must be between %.0f and %.0f: %w", MinPaymentAmount, MaxPaymentAmount, domainerrors.ErrInvalidInput)
	case !currencyRe.MatchString(input.Currency):
		return fmt.Errorf("currency must be a 3-letter uppercase code: %w", domainerrors.ErrInvalidInput)
	case !purposeRe.MatchString(input.Purpose):
		return fmt.Errorf("purpose must be at most 200 letters, digits, spaces, hyphens, dots or commas: %w", domainerrors.ErrInvalidInput)
	}
	return nil
}

// generateReferenceNumber builds INT + last six digits of a millisecond
// timestamp + six random base-36 uppercase characters.
func generateReferenceNumber() (string, error) {
	millis := time.Now().UnixMilli() % 1000000

	random := make([]byte, 6)
	if _, err := rand.Read(random); err != nil {
		return "", fmt.Errorf("failed to generate reference number: %w", err)
	}
	for i, b := range random {
		random[i] = referenceAlphabet[int(b)%len(referenceAlphabet)]
	}

	return fmt.Sprintf("%s%06d%s", ReferencePrefix, millis, string(random)), nil
}
