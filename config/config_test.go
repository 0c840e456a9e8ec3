package config

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/keysmith-network/keysmith/pkg/network"
)

func TestDefaults(t *testing.T) {
	assert.Equal(t, network.Mainnet.Name, GetString(NetworkKey))
	assert.Equal(t, defaultDatadir, GetDatadir())
	assert.Equal(t, 4, GetInt(LogLevelKey))
	assert.Equal(t, &network.Mainnet, GetNetwork())
}

func TestSetNetwork(t *testing.T) {
	Set(NetworkKey, network.Regtest.Name)
	defer Set(NetworkKey, network.Mainnet.Name)

	assert.Equal(t, &network.Regtest, GetNetwork())
}
