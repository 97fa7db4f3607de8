package types

// Storage size limits. The quota mirrors the text-store ceiling of the
// browser deployments this format originated in; the soft limit is the
// point at which callers should advise a backup and prune.
const (
	DefaultQuotaBytes     = 10 << 20
	DefaultSoftLimitBytes = 5 << 20
)

// Config holds storage locations and size limits for opening the
// record and blob stores.
type Config struct {
	DataDir        string `json:"data_dir" yaml:"data_dir"`
	QuotaBytes     int64  `json:"quota_bytes" yaml:"quota_bytes"`
	SoftLimitBytes int64  `json:"soft_limit_bytes" yaml:"soft_limit_bytes"`
}

// WithDefaults returns a copy of the config with zero-valued limits
// replaced by the package defaults.
func (c Config) WithDefaults() Config {
	if c.QuotaBytes == 0 {
		c.QuotaBytes = DefaultQuotaBytes
	}
	if c.SoftLimitBytes == 0 {
		c.SoftLimitBytes = DefaultSoftLimitBytes
	}
	return c
}

// Validate checks that the Config is well-formed. It returns a sentinel
// error from this package on failure.
func (c Config) Validate() error {
	if c.DataDir == "" {
		return ErrDataDirEmpty
	}
	if c.QuotaBytes < 0 {
		return ErrQuotaInvalid
	}
	if c.SoftLimitBytes < 0 || (c.QuotaBytes > 0 && c.SoftLimitBytes > c.QuotaBytes) {
		return ErrSoftLimitInvalid
	}
	return nil
}
