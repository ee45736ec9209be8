package auth

import (
	"context"
	"fmt"

	"github.com/fatali-fataliyev/club_treasury/internal/records"
	"github.com/fatali-fataliyev/club_treasury/logging"
	"github.com/sirupsen/logrus"
)

// Allowlist answers admission questions from the allowed-phones snapshot.
// The snapshot is re-read on every call.
type Allowlist struct {
	source records.Source
	file   string
}

func NewAllowlist(source records.Source, file string) *Allowlist {
	return &Allowlist{
		source: source,
		file:   file,
	}
}

// Records returns every parsed row, whatever its status.
func (a *Allowlist) Records(ctx context.Context) ([]AllowedPhone, error) {
	table, err := records.Load(ctx, a.source, a.file, records.AllowedPhoneColumns)
	if err != nil {
		return []AllowedPhone{}, fmt.Errorf("failed to load allowed phones: %w", err)
	}
	if table.Skipped > 0 {
		logging.Logger.WithFields(logrus.Fields{
			"source":  a.file,
			"skipped": table.Skipped,
		}).Warn("dropped malformed allowed-phone rows")
	}

	phones := make([]AllowedPhone, 0, len(table.Rows))
	for _, row := range table.Rows {
		phones = append(phones, AllowedPhone{
			PhoneNumber: row.Fields[0],
			Name:        row.Fields[1],
			Status:      Status(row.Fields[2]),
		})
	}
	return phones, nil
}

// IsAllowed reports whether phone matches an active record. It fails
// closed: an unreadable snapshot denies everyone.
func (a *Allowlist) IsAllowed(ctx context.Context, phone string) bool {
	normalized := NormalizePhone(phone)
	if normalized == "" {
		return false
	}

	phones, err := a.Records(ctx)
	if err != nil {
		logging.Logger.WithError(err).Error("allow-list unavailable, denying login")
		return false
	}

	for _, p := range phones {
		if p.IsActive() && NormalizePhone(p.PhoneNumber) == normalized {
			return true
		}
	}
	logging.Logger.WithField("phone", normalized).Info("phone number not on the allow-list")
	return false
}

// AllowedNumbers returns the normalized numbers of all active records.
func (a *Allowlist) AllowedNumbers(ctx context.Context) (map[string]struct{}, error) {
	phones, err := a.Records(ctx)
	if err != nil {
		return map[string]struct{}{}, err
	}

	numbers := make(map[string]struct{}, len(phones))
	for _, p := range phones {
		if !p.IsActive() {
			continue
		}
		if n := NormalizePhone(p.PhoneNumber); n != "" {
			numbers[n] = struct{}{}
		}
	}
	return numbers, nil
}
