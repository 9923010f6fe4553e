// Package signal maps raw log records to fact identifiers. Both extraction
// functions are pure: they return data and never touch the fact store, so
// the ingestion boundary stays a thin adapter around the reasoning core.
package signal

import (
	"github.com/chainrecon/chainrecon/pkg/recon/event"
	"github.com/chainrecon/chainrecon/pkg/recon/fact"
)

// Signal is a positive fact observation extracted from one log record.
type Signal struct {
	ID   fact.ID
	Time int64
}

// Extract returns the positive signals a record supports. Unknown event
// types yield an empty set.
func Extract(rec event.Record) []Signal {
	var signals []Signal

	switch rec.EventType {
	case event.TypeLogin:
		if rec.Privilege == "user" {
			signals = append(signals, Signal{
				ID:   fact.ID{Kind: fact.UserAccess, Host: rec.Host},
				Time: rec.Timestamp,
			})
		}
	case event.TypeSudo:
		signals = append(signals, Signal{
			ID:   fact.ID{Kind: fact.AdminAccess, Host: rec.Host},
			Time: rec.Timestamp,
		})
	case event.TypeLSASSAccess:
		signals = append(signals, Signal{
			ID:   fact.ID{Kind: fact.CredentialDumped, Host: rec.Host},
			Time: rec.Timestamp,
		})
	case event.TypeSMBSession:
		if rec.Src != "" && rec.Dst != "" {
			signals = append(signals, Signal{
				ID:   fact.ID{Kind: fact.NetworkAccess, Host: rec.Dst, Src: rec.Src},
				Time: rec.Timestamp,
			})
		}
	}

	return signals
}

// ExtractNegative returns the identifiers a record contradicts. A failed
// login contradicts user access, a logout contradicts continued access, an
// EDR block contradicts a credential dump, a firewall block contradicts
// network reachability.
func ExtractNegative(rec event.Record) []fact.ID {
	var negative []fact.ID

	switch rec.EventType {
	case event.TypeLoginFailed:
		negative = append(negative, fact.ID{Kind: fact.UserAccess, Host: rec.Host})
	case event.TypeLogout:
		negative = append(negative,
			fact.ID{Kind: fact.UserAccess, Host: rec.Host},
			fact.ID{Kind: fact.AdminAccess, Host: rec.Host},
		)
	case event.TypeEDRBlock:
		negative = append(negative, fact.ID{Kind: fact.CredentialDumped, Host: rec.Host})
	case event.TypeFirewallBlock:
		if rec.Src != "" && rec.Dst != "" {
			negative = append(negative, fact.ID{Kind: fact.NetworkAccess, Host: rec.Dst, Src: rec.Src})
		}
	}

	return negative
}
