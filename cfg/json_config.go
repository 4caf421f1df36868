package cfg

type CrashCfg struct {
	File    string `json:"file"`
	Symbols string `json:"symbols"`
}

type HandlersCfg struct {
	Exceptions bool `json:"exceptions"`
	Exit       bool `json:"exit"`
	Vector     bool `json:"vector"`
	Console    bool `json:"console"`
}

type SignatureCfg struct {
	Ignore []string `json:"ignore"`
}

type LogCfg struct {
	Level string `json:"level"`
}

// Only the handlers section is required; the others fall back to zero
// values.
type JsonConfig struct {
	Crash     *CrashCfg     `json:"crash"`
	Handlers  *HandlersCfg  `json:"handlers"`
	Signature *SignatureCfg `json:"signature"`
	Log       *LogCfg       `json:"log"`
}

func (cfg *JsonConfig) CrashFile() string {
	if cfg.Crash == nil {
		return ""
	}
	return cfg.Crash.File
}

func (cfg *JsonConfig) SymbolsDir() string {
	if cfg.Crash == nil {
		return ""
	}
	return cfg.Crash.Symbols
}

func (cfg *JsonConfig) HandleExceptions() bool {
	return cfg.Handlers != nil && cfg.Handlers.Exceptions
}

func (cfg *JsonConfig) HandleExit() bool {
	return cfg.Handlers != nil && cfg.Handlers.Exit
}

func (cfg *JsonConfig) HandleVector() bool {
	return cfg.Handlers != nil && cfg.Handlers.Vector
}

func (cfg *JsonConfig) HandleConsole() bool {
	return cfg.Handlers != nil && cfg.Handlers.Console
}

func (cfg *JsonConfig) IgnoreFrames() []string {
	if cfg.Signature == nil {
		return nil
	}
	return cfg.Signature.Ignore
}

func (cfg *JsonConfig) LogLevel() string {
	if cfg.Log == nil {
		return ""
	}
	return cfg.Log.Level
}
