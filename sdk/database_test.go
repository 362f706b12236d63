package sdk

import (
	"github.com/driveclone/go-drive-sdk/utils"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func getFileStorageInitializeOptions(instanceName string, databaseDir string, encryptionKey []byte) *InitializeOptions {
	return &InitializeOptions{
		ApiURL:       unreachableApiURL,
		Database:     &FileStorage{DatabaseDir: databaseDir, EncryptionKey: encryptionKey},
		LogLevel:     zerolog.InfoLevel,
		InstanceName: instanceName,
	}
}

// signUpTestSdk initializes an SDK on the given options, signs up through
// a canary, and closes it, leaving whatever the Database persisted behind.
func signUpTestSdk(t *testing.T, options *InitializeOptions) {
	sdk, err := Initialize(options)
	require.NoError(t, err)
	canaryApi := newCanaryDriveApiClient(sdk.apiClient)
	sdk.apiClient = canaryApi

	token, err := makeTestAuthToken(time.Now().Add(time.Hour))
	require.NoError(t, err)
	canaryApi.ToExecute["signUp"] = func(request any) ([]byte, error) {
		return signUpResponseBody("user-1", "alice@example.com", "Alice", token)
	}
	_, err = sdk.SignUp("alice@example.com", "hunter2")
	require.NoError(t, err)
	require.NoError(t, sdk.Close())
}

func Test_FileStorage(t *testing.T) {
	t.Parallel()

	t.Run("identity survives a reload", func(t *testing.T) {
		t.Parallel()
		databaseDir := filepath.Join(t.TempDir(), "database")
		signUpTestSdk(t, getFileStorageInitializeOptions("file_storage_reload_1", databaseDir, nil))

		// A fresh instance on the same directory starts authenticated,
		// without any gateway call.
		sdk, err := Initialize(getFileStorageInitializeOptions("file_storage_reload_2", databaseDir, nil))
		require.NoError(t, err)
		canaryApi := newCanaryDriveApiClient(sdk.apiClient)
		sdk.apiClient = canaryApi

		accountInfo := sdk.GetCurrentAccountInfo()
		require.NotNil(t, accountInfo)
		assert.Equal(t, "user-1", accountInfo.UserId)
		assert.Equal(t, "alice@example.com", accountInfo.Email)
		assert.Equal(t, "Alice", accountInfo.DisplayName)
		require.NotNil(t, accountInfo.TokenExpires)
		assert.Equal(t, 0, canaryApi.Counter["signUp"])
		assert.Equal(t, 0, canaryApi.Counter["logIn"])
		require.NoError(t, sdk.Close())
	})

	t.Run("logout removes the persisted identity", func(t *testing.T) {
		t.Parallel()
		databaseDir := filepath.Join(t.TempDir(), "database")
		options := getFileStorageInitializeOptions("file_storage_logout_1", databaseDir, nil)
		sdk, err := Initialize(options)
		require.NoError(t, err)
		canaryApi := newCanaryDriveApiClient(sdk.apiClient)
		sdk.apiClient = canaryApi

		token, err := makeTestAuthToken(time.Now().Add(time.Hour))
		require.NoError(t, err)
		canaryApi.ToExecute["signUp"] = func(request any) ([]byte, error) {
			return signUpResponseBody("user-1", "alice@example.com", "Alice", token)
		}
		_, err = sdk.SignUp("alice@example.com", "hunter2")
		require.NoError(t, err)
		require.NoError(t, sdk.LogOut())
		require.NoError(t, sdk.Close())

		reloaded, err := Initialize(getFileStorageInitializeOptions("file_storage_logout_2", databaseDir, nil))
		require.NoError(t, err)
		assert.Nil(t, reloaded.GetCurrentAccountInfo())
		require.NoError(t, reloaded.Close())
	})

	t.Run("storage file permissions", func(t *testing.T) {
		t.Parallel()
		databaseDir := filepath.Join(t.TempDir(), "database")
		signUpTestSdk(t, getFileStorageInitializeOptions("file_storage_permissions", databaseDir, nil))

		dirInfo, err := os.Stat(databaseDir)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0700), dirInfo.Mode().Perm())
		fileInfo, err := os.Stat(filepath.Join(databaseDir, currentIdentityFileName))
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), fileInfo.Mode().Perm())
	})

	t.Run("encrypted storage", func(t *testing.T) {
		t.Parallel()
		t.Run("round trip with the derived key", func(t *testing.T) {
			t.Parallel()
			databaseDir := filepath.Join(t.TempDir(), "database")
			encryptionKey, err := utils.DeriveStorageKey("correct horse battery staple", "drive-storage-salt")
			require.NoError(t, err)
			signUpTestSdk(t, getFileStorageInitializeOptions("file_storage_encrypted_1", databaseDir, encryptionKey))

			sdk, err := Initialize(getFileStorageInitializeOptions("file_storage_encrypted_2", databaseDir, encryptionKey))
			require.NoError(t, err)
			accountInfo := sdk.GetCurrentAccountInfo()
			require.NotNil(t, accountInfo)
			assert.Equal(t, "user-1", accountInfo.UserId)
			require.NoError(t, sdk.Close())

			// The file on disk is not readable as a plain record
			raw, err := os.ReadFile(filepath.Join(databaseDir, currentIdentityFileName))
			require.NoError(t, err)
			assert.NotContains(t, string(raw), "alice@example.com")
		})

		t.Run("wrong key is refused", func(t *testing.T) {
			t.Parallel()
			databaseDir := filepath.Join(t.TempDir(), "database")
			encryptionKey, err := utils.DeriveStorageKey("correct horse battery staple", "drive-storage-salt")
			require.NoError(t, err)
			signUpTestSdk(t, getFileStorageInitializeOptions("file_storage_wrong_key_1", databaseDir, encryptionKey))

			wrongKey, err := utils.DeriveStorageKey("bad passphrase", "drive-storage-salt")
			require.NoError(t, err)
			_, err = Initialize(getFileStorageInitializeOptions("file_storage_wrong_key_2", databaseDir, wrongKey))
			assert.ErrorIs(t, err, ErrorStorageCorrupted)
		})

		t.Run("key size is checked", func(t *testing.T) {
			t.Parallel()
			databaseDir := filepath.Join(t.TempDir(), "database")
			_, err := Initialize(getFileStorageInitializeOptions("file_storage_bad_key_size", databaseDir, []byte("short")))
			assert.ErrorIs(t, err, ErrorStorageInvalidKeySize)
		})
	})

	t.Run("database lock", func(t *testing.T) {
		t.Parallel()
		databaseDir := filepath.Join(t.TempDir(), "database")
		sdk, err := Initialize(getFileStorageInitializeOptions("file_storage_lock_1", databaseDir, nil))
		require.NoError(t, err)

		// A second instance on the same directory is refused while the
		// first holds the lock
		_, err = Initialize(getFileStorageInitializeOptions("file_storage_lock_2", databaseDir, nil))
		assert.ErrorIs(t, err, ErrorDatabaseLocked)

		require.NoError(t, sdk.Close())
	})

	t.Run("read and write after close", func(t *testing.T) {
		t.Parallel()
		databaseDir := filepath.Join(t.TempDir(), "database")
		fileStorage := &FileStorage{DatabaseDir: databaseDir}
		require.NoError(t, fileStorage.initialize())
		require.ErrorIs(t, fileStorage.initialize(), ErrorDatabaseAlreadyInitialized)
		require.NoError(t, fileStorage.close())

		var identityStorage currentIdentityStorage
		assert.ErrorIs(t, fileStorage.readCurrentIdentity(&identityStorage), ErrorDatabaseClosed)
		assert.ErrorIs(t, fileStorage.writeCurrentIdentity(&identityStorage), ErrorDatabaseClosed)
	})
}

func Test_MemoryStorage(t *testing.T) {
	t.Parallel()

	t.Run("nothing survives the instance", func(t *testing.T) {
		t.Parallel()
		sdk, canaryApi, err := newTestSdk("memory_storage_ephemeral_1")
		require.NoError(t, err)

		token, err := makeTestAuthToken(time.Now().Add(time.Hour))
		require.NoError(t, err)
		canaryApi.ToExecute["signUp"] = func(request any) ([]byte, error) {
			return signUpResponseBody("user-1", "alice@example.com", "Alice", token)
		}
		_, err = sdk.SignUp("alice@example.com", "hunter2")
		require.NoError(t, err)
		require.NoError(t, sdk.Close())

		reloaded, _, err := newTestSdk("memory_storage_ephemeral_2")
		require.NoError(t, err)
		assert.Nil(t, reloaded.GetCurrentAccountInfo())
	})

	t.Run("state checks", func(t *testing.T) {
		t.Parallel()
		memoryStorage := &MemoryStorage{}
		require.NoError(t, memoryStorage.initialize())
		assert.ErrorIs(t, memoryStorage.initialize(), ErrorDatabaseAlreadyInitialized)
		require.NoError(t, memoryStorage.close())

		var identityStorage currentIdentityStorage
		assert.ErrorIs(t, memoryStorage.readCurrentIdentity(&identityStorage), ErrorDatabaseClosed)
		assert.ErrorIs(t, memoryStorage.writeCurrentIdentity(&identityStorage), ErrorDatabaseClosed)
	})
}
