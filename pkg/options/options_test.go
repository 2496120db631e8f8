package options

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAddress(t *testing.T) {
	assert.NoError(t, ValidateAddress("0.0.0.0:8080"))
	assert.NoError(t, ValidateAddress("localhost:0"))
	assert.Error(t, ValidateAddress("no-port"))
	assert.Error(t, ValidateAddress(""))
}

func TestDefaultsValidate(t *testing.T) {
	groups := []IOptions{
		NewHttpOptions(),
		NewMqttOptions(),
		NewS3Options(),
		NewBulkOptions(),
		NewSeedOptions(),
	}
	for _, g := range groups {
		assert.Empty(t, g.Validate(), "%T", g)
	}
}

func TestHttpOptionsFlags(t *testing.T) {
	opts := NewHttpOptions()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	opts.AddFlags(fs)

	require.NoError(t, fs.Parse([]string{"--http.addr=127.0.0.1:9999"}))
	assert.Equal(t, "127.0.0.1:9999", opts.Addr)
	assert.Empty(t, opts.Validate())

	require.NoError(t, fs.Set("http.addr", "nonsense"))
	assert.NotEmpty(t, opts.Validate())
}

func TestMqttOptionsToClientConfig(t *testing.T) {
	opts := NewMqttOptions()
	opts.Broker = "mqtt://broker.local:1883"
	opts.ClientID = "test-client"

	cfg := opts.ToClientConfig()
	assert.Equal(t, "mqtt://broker.local:1883", cfg.BrokerURL)
	assert.Equal(t, "test-client", cfg.ClientID)
	assert.Equal(t, uint16(60), cfg.KeepAlive)
	assert.True(t, cfg.CleanStart)
}

func TestMqttOptionsEmptyBrokerIsValid(t *testing.T) {
	opts := NewMqttOptions()
	opts.Broker = ""
	assert.Empty(t, opts.Validate())
}
