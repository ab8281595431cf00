package desk

// Default GATT identifiers and command bytes observed on the reference
// hardware. Other desk models are known to use different command
// codes (spec.md §9 open question), so Config exposes them for
// override rather than hard-coding them into the adapter.
var (
	DefaultStateCharacteristicUUID   = "99fa0021-338a-1024-8a49-009c0215f78a"
	DefaultCommandCharacteristicUUID = "99fa0002-338a-1024-8a49-009c0215f78a"

	DefaultUpCommand   = []byte{0x47, 0x00}
	DefaultDownCommand = []byte{0x46, 0x00}
	DefaultStopCommand = []byte{0xff, 0x00}
)

// Config configures one Adapter's characteristic identifiers and
// command bytes. Zero-valued fields fall back to the reference
// hardware's defaults in WithDefaults.
type Config struct {
	Address                  string
	StateCharacteristicUUID   string
	CommandCharacteristicUUID string
	UpCommand                 []byte
	DownCommand               []byte
	StopCommand               []byte
}

// WithDefaults returns a copy of cfg with unset fields filled in from
// the reference hardware defaults.
func (cfg Config) WithDefaults() Config {
	if cfg.StateCharacteristicUUID == "" {
		cfg.StateCharacteristicUUID = DefaultStateCharacteristicUUID
	}
	if cfg.CommandCharacteristicUUID == "" {
		cfg.CommandCharacteristicUUID = DefaultCommandCharacteristicUUID
	}
	if cfg.UpCommand == nil {
		cfg.UpCommand = DefaultUpCommand
	}
	if cfg.DownCommand == nil {
		cfg.DownCommand = DefaultDownCommand
	}
	if cfg.StopCommand == nil {
		cfg.StopCommand = DefaultStopCommand
	}
	return cfg
}
