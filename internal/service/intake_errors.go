package service

import (
	"errors"
	"fmt"

	"github.com/parlevel-next/internal/mailbox"
)

var (
	ErrInvalidOrderRequest  = errors.New("restaurant id, supplier id and order text are required")
	ErrPartyNotFound        = errors.New("party not found")
	ErrPartyRoleMismatch    = errors.New("party role does not match request")
	ErrPartyDisabled        = errors.New("party is disabled")
	ErrPartnershipNotActive = errors.New("no active partnership between restaurant and supplier")
	ErrNoOrderLines         = errors.New("no catalog item matched the order text")
	ErrOrderPersistFailed   = errors.New("order persistence failed")
	ErrOrderNotFound        = errors.New("order not found")
	ErrOrderAccessDenied    = errors.New("order not visible to caller")
	ErrPollInProgress       = errors.New("mailbox poll already in progress")
	ErrMailboxNotConnected  = mailbox.ErrMailboxNotConnected
)

func persistenceError(err error) error {
	return fmt.Errorf("%w: %w", ErrOrderPersistFailed, err)
}
