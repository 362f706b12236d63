package sdk

import (
	"github.com/driveclone/go-drive-sdk/api_helper"
	"github.com/driveclone/go-drive-sdk/utils"
	"github.com/rs/zerolog"
	"github.com/ztrue/tracerr"
	"io"
	"os"
	"sync"
	"time"
)

var (
	// ErrorApiURLRequired is returned when ApiURL is not defined in InitializeOptions.
	ErrorApiURLRequired = utils.NewDriveError("SDK_API_URL_REQUIRED", "ApiURL argument is required")
	// ErrorDatabaseRequired is returned when Database is not defined in InitializeOptions.
	ErrorDatabaseRequired = utils.NewDriveError("SDK_DATABASE_REQUIRED", "Database argument is required")
	// ErrorRequireAccount is returned when trying to use a function that needs an authenticated session, but the session is anonymous
	ErrorRequireAccount = utils.NewDriveError("REQUIRE_ACCOUNT", "this function cannot be called before signing up or logging in")
	// ErrorRequireNoAccount is returned when trying to use a function that needs an anonymous session
	ErrorRequireNoAccount = utils.NewDriveError("REQUIRE_NO_ACCOUNT", "this function cannot be called while a session is authenticated")
	// ErrorSdkClosed is returned when this SDK instance has been closed
	ErrorSdkClosed = utils.NewDriveError("SDK_CLOSED", "this SDK instance has already been closed")
)

// InitializeOptions is the main options object for initializing the SDK instance.
type InitializeOptions struct {
	// ApiURL is the drive backend for this instance to use.
	ApiURL string
	// Database is the storage backend instance to use to persist the session identity across reloads.
	Database Database
	// LogLevel is the minimum level of logs you want. All logs of this level or above will be displayed. Use one of the zerolog level constants.
	LogLevel zerolog.Level
	// LogNoColor should be set to true if you want to disable colors in the log output.
	LogNoColor bool
	// InstanceName is an arbitrary name to give to this instance. Can be useful for debugging when multiple instances are running in parallel, as it is added to logs.
	InstanceName string
	// LogWriter is the io.Writer to which to write the logs. Defaults to os.Stdout.
	LogWriter io.Writer
}

type storage struct {
	currentIdentity currentIdentityStorage
	fileCatalog     fileCatalogStorage
	selection       selectionStorage
}

type stateLocks struct {
	currentIdentityLock sync.RWMutex // Lock when doing something that can change the current session identity
}

// State is the object representing an instance of the drive SDK.
// You must never create a State yourself. Instead, always use Initialize.
type State struct {
	apiClient driveApiClientInterface
	storage   storage
	locks     stateLocks
	options   *InitializeOptions
	logger    zerolog.Logger
	closed    bool
}

func validateOptions(options InitializeOptions) error {
	if options.ApiURL == "" {
		return tracerr.Wrap(ErrorApiURLRequired)
	}
	if options.Database == nil {
		return tracerr.Wrap(ErrorDatabaseRequired)
	}
	return nil
}

// Initialize is the function to use to create an instance of the SDK.
// It receives an InitializeOptions object, and returns a State representing the instantiated SDK.
// If the Database holds a persisted identity from a previous session, the
// instance starts authenticated with it right away, without a server round
// trip.
func Initialize(options *InitializeOptions) (*State, error) {
	err := validateOptions(*options)
	if err != nil {
		return nil, tracerr.Wrap(err)
	}

	if options.LogWriter == nil {
		options.LogWriter = os.Stdout
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	instanceLogger := zerolog.New(zerolog.ConsoleWriter{Out: options.LogWriter, TimeFormat: time.StampMilli, NoColor: options.LogNoColor}).With().Timestamp().Logger()
	instanceLogger = instanceLogger.Level(options.LogLevel)
	if options.InstanceName != "" {
		instanceLogger = instanceLogger.With().Str("instance", options.InstanceName).Logger()
	}

	instanceLogger.Debug().Msg("Initialize new instance...")

	err = options.Database.initialize()
	if err != nil {
		return nil, tracerr.Wrap(err)
	}

	apiLogger := instanceLogger.With().Str("component", "driveApiClient").Logger()
	state := State{
		apiClient: &driveApiClient{
			ApiClient: *api_helper.NewApiClient(options.ApiURL, nil, apiLogger),
		},
		options: options,
		logger:  instanceLogger,
	}
	state.storage.selection.init()

	err = options.Database.readCurrentIdentity(&state.storage.currentIdentity)
	if err != nil {
		return nil, tracerr.Wrap(err)
	}

	restored := state.storage.currentIdentity.get()
	if !restored.isAnonymous() {
		// Trust-on-read: the persisted identity is used as-is, without
		// server-side revalidation.
		state.apiClient.setAuthToken(restored.AuthToken)
		instanceLogger.Info().Str("email", restored.Identity.Email).Msg("Restored persisted identity")
	}

	state.closed = false

	return &state, nil
}

// Close closes the current SDK instance. This frees any lock on the current database. After calling Close, the instance cannot be used anymore.
func (state *State) Close() error {
	if state.closed == true { // Checking if already closed, to bail out
		state.logger.Debug().Msg("Already closed")
		return nil
	}

	state.locks.currentIdentityLock.Lock()
	defer state.locks.currentIdentityLock.Unlock()

	if state.closed == true { // Checking again, because maybe it got closed while we were acquiring the lock
		state.logger.Debug().Msg("Already closed after lock")
		return nil
	}

	state.logger.Debug().Msg("Closing...")

	err := state.options.Database.close()
	if err != nil {
		return tracerr.Wrap(err)
	}

	state.closed = true
	state.logger.Info().Msg("Closed")

	return nil
}

func (state *State) saveCurrentIdentity() error {
	return state.options.Database.writeCurrentIdentity(&state.storage.currentIdentity)
}

func (state *State) checkSdkOpen() error {
	if state.closed {
		return tracerr.Wrap(ErrorSdkClosed)
	}
	return nil
}

func (state *State) checkSdkState(mustHaveAccount bool) error {
	err := state.checkSdkOpen()
	if err != nil {
		return err
	}
	hasAccount := !state.storage.currentIdentity.get().isAnonymous()
	if !hasAccount && mustHaveAccount {
		return tracerr.Wrap(ErrorRequireAccount)
	}
	if hasAccount && !mustHaveAccount {
		return tracerr.Wrap(ErrorRequireNoAccount)
	}
	return nil
}
