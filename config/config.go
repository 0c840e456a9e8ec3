package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/btcsuite/btcd/btcutil"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/keysmith-network/keysmith/pkg/network"
)

const (
	// NetworkKey is the network keys and addresses are encoded for. Either
	// "mainnet", "testnet" or "regtest"
	NetworkKey = "NETWORK"
	// DatadirKey is the local data directory where the keystore database
	// lives
	DatadirKey = "DATA_DIR_PATH"
	// LogLevelKey are the different logging levels. For reference on the
	// values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"

	// DbLocation is the subdirectory of the datadir holding the keystore
	DbLocation = "db"
)

var vip *viper.Viper
var defaultDatadir = btcutil.AppDataDir("keysmith", false)

func init() {
	vip = viper.New()
	vip.SetEnvPrefix("KEYSMITH")
	vip.AutomaticEnv()

	vip.SetDefault(NetworkKey, network.Mainnet.Name)
	vip.SetDefault(DatadirKey, defaultDatadir)
	vip.SetDefault(LogLevelKey, 4)

	if err := validate(); err != nil {
		log.WithError(err).Panic("error while validating config")
	}
}

// GetString ...
func GetString(key string) string {
	return vip.GetString(key)
}

// GetInt ...
func GetInt(key string) int {
	return vip.GetInt(key)
}

// GetBool ...
func GetBool(key string) bool {
	return vip.GetBool(key)
}

// Set a value for the given key
func Set(key string, value interface{}) {
	vip.Set(key, value)
}

// IsSet returns whether the give key is set
func IsSet(key string) bool {
	return vip.IsSet(key)
}

// GetNetwork returns the configured network parameters
func GetNetwork() *network.Network {
	net, _ := network.FromName(GetString(NetworkKey))
	return net
}

// GetDatadir returns the configured data directory
func GetDatadir() string {
	return GetString(DatadirKey)
}

// InitDatadir creates the data directory layout if missing. It is called by
// the commands that open the keystore, pure key derivation never touches
// the disk.
func InitDatadir() error {
	return makeDirectoryIfNotExists(filepath.Join(GetDatadir(), DbLocation))
}

func validate() error {
	datadir := GetString(DatadirKey)
	if len(datadir) <= 0 {
		return fmt.Errorf("datadir must not be null")
	}

	if _, err := network.FromName(GetString(NetworkKey)); err != nil {
		return fmt.Errorf(
			"network must be one of '%s', '%s' or '%s'",
			network.Mainnet.Name, network.Testnet.Name, network.Regtest.Name,
		)
	}
	return nil
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}
