package main

import (
	"io"

	"github.com/adrg/xdg"
	smartfmt "github.com/itsatony/go-smartfmt"
	"github.com/itsatony/go-smartfmt/smart"
	"github.com/itsatony/go-smartfmt/store"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/text/language"
)

// buildEngine creates the engine described by the flags; extra options are
// applied last. The returned function releases the resource store.
func buildEngine(f *engineFlags, stderr io.Writer, extra ...smartfmt.Option) (*smartfmt.Engine, func(), error) {
	settings, err := loadSettings(f.configPath)
	if err != nil {
		return nil, nil, newExitError(ExitCodeUsageError, ErrMsgLoadConfigFailed, err)
	}

	opts := []smartfmt.Option{
		smartfmt.WithSettings(settings),
		smartfmt.WithLogger(newLogger(f.verbose, stderr)),
	}
	if f.onError != "" {
		action, ok := smartfmt.ParseErrorAction(f.onError)
		if !ok {
			return nil, nil, newExitError(ExitCodeUsageError, ErrMsgInvalidOnError, nil)
		}
		opts = append(opts, smartfmt.WithFormatErrorAction(action))
	}
	if f.caseInsensitive {
		opts = append(opts, smartfmt.WithCaseSensitivity(smartfmt.CaseInsensitive))
	}
	if f.culture != "" {
		culture, err := smartfmt.NewCulture(f.culture)
		if err != nil {
			return nil, nil, newExitError(ExitCodeUsageError, ErrMsgInvalidLanguage, err)
		}
		opts = append(opts, smartfmt.WithProvider(culture))
	}
	opts = append(opts, extra...)

	languages := make([]language.Tag, 0, len(f.languages))
	for _, l := range f.languages {
		tag, err := language.Parse(l)
		if err != nil {
			return nil, nil, newExitError(ExitCodeUsageError, ErrMsgInvalidLanguage, err)
		}
		languages = append(languages, tag)
	}

	resources, err := openStore(f.storeDriver, f.storeDSN)
	if err != nil {
		return nil, nil, err
	}
	release := func() {
		if resources != nil {
			_ = resources.Close()
		}
	}

	engine, err := smart.New(
		smart.WithEngineOptions(opts...),
		smart.WithStore(resources),
		smart.WithLanguages(languages...),
	)
	if err != nil {
		release()
		return nil, nil, newExitError(ExitCodeError, ErrMsgCreateEngineFailed, err)
	}
	return engine, release, nil
}

// loadSettings reads the given settings file, or the user's config file
// when one exists. SMARTFMT_* environment variables apply in both cases.
func loadSettings(path string) (smartfmt.Settings, error) {
	if path != "" {
		return smartfmt.LoadSettings(path)
	}
	if found, err := xdg.SearchConfigFile(DefaultConfigFile); err == nil {
		return smartfmt.LoadSettings(found)
	}
	return smartfmt.LoadSettings()
}

func openStore(driver, dsn string) (store.Store, error) {
	if driver == "" {
		return nil, nil
	}
	if dsn == "" && driver != store.DriverMemory {
		return nil, newExitError(ExitCodeUsageError, ErrMsgStoreDSNRequired, nil)
	}
	s, err := store.Open(driver, dsn)
	if err != nil {
		return nil, newExitError(ExitCodeError, ErrMsgOpenStoreFailed, err)
	}
	return s, nil
}

// newLogger logs debug output to stderr when verbose is set
func newLogger(verbose bool, stderr io.Writer) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(stderr),
		zap.DebugLevel,
	)
	return zap.New(core)
}
