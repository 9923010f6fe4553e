// Package event defines the security log record consumed by the reasoning core.
//
// Records arrive from an ingestion adapter (JSONL file, SQLite batch, ...) and are
// assumed well-formed: the core never validates identifiers or timestamps beyond
// tolerating unknown event types.
package event

// Known event types produced by the collection layer. The set is open: signal
// extraction ignores types it does not recognize.
const (
	TypeLogin         = "login"
	TypeLoginFailed   = "login_failed"
	TypeLogout        = "logout"
	TypeSudo          = "sudo"
	TypeLSASSAccess   = "lsass_access"
	TypeProcDump      = "proc_dump"
	TypePrivEsc       = "privilege_escalation"
	TypeSMBSession    = "smb_session"
	TypeRDPSession    = "rdp_session"
	TypeEDRBlock      = "edr_block"
	TypeFirewallBlock = "firewall_block"
)

// Record is a single security event. Timestamp is event time in Unix seconds,
// never wall-clock at ingestion. Host/Src/Dst/Privilege are type-specific and
// may be empty.
type Record struct {
	EventType string `json:"event_type" yaml:"event_type"`
	Timestamp int64  `json:"timestamp" yaml:"timestamp"`
	Host      string `json:"host,omitempty" yaml:"host,omitempty"`
	Src       string `json:"src,omitempty" yaml:"src,omitempty"`
	Dst       string `json:"dst,omitempty" yaml:"dst,omitempty"`
	User      string `json:"user,omitempty" yaml:"user,omitempty"`
	Privilege string `json:"privilege,omitempty" yaml:"privilege,omitempty"`
}
