package dto

// AuditRequest selects between a dry run and a fixing pass. Dry run is the
// default; fixes never happen without the explicit flag.
type AuditRequest struct {
	AutoFix bool `json:"autoFix"`
}
