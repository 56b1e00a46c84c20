package config

const (
	defaultLogDir        = "~/.local/share/unimoji/logs"
	defaultUniBinary     = "uni"
	defaultConvertBinary = "convert"
	defaultTones         = "none,light"
	defaultGenders       = "all"
	defaultPointSize     = 64
	defaultFallbackGlyph = "😀"
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"
	defaultLogMaxSizeMB  = 10
	defaultLogMaxBackups = 3
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			CacheDir: defaultCacheDir(),
			LogDir:   defaultLogDir,
		},
		Oracle: Oracle{
			UniBinary:     defaultUniBinary,
			ConvertBinary: defaultConvertBinary,
			Tones:         defaultTones,
			Genders:       defaultGenders,
		},
		Icons: Icons{
			PointSize:     defaultPointSize,
			FallbackGlyph: defaultFallbackGlyph,
		},
		Logging: Logging{
			Format:     defaultLogFormat,
			Level:      defaultLogLevel,
			MaxSizeMB:  defaultLogMaxSizeMB,
			MaxBackups: defaultLogMaxBackups,
		},
	}
}
