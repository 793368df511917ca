package conn

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOptionDSN(t *testing.T) {
	cases := []struct {
		name     string
		opt      Option
		dsn      string
		redacted string
	}{
		{
			name:     "defaults",
			opt:      Option{},
			dsn:      "postgres://localhost:5432?sslmode=disable",
			redacted: "postgres://localhost:5432?sslmode=disable",
		},
		{
			name: "full",
			opt: Option{
				Host:     "db",
				Port:     6543,
				User:     "report",
				Password: "secret",
				Database: "fills",
				SSLMode:  "require",
				Params:   map[string]string{"application_name": "tradereport", "": "ignored"},
			},
			dsn:      "postgres://report:secret@db:6543/fills?application_name=tradereport&sslmode=require",
			redacted: "postgres://report@db:6543/fills?application_name=tradereport&sslmode=require",
		},
		{
			name:     "conn string",
			opt:      Option{ConnString: "postgres://u:p@h:1/d", Host: "ignored"},
			dsn:      "postgres://u:p@h:1/d",
			redacted: "postgres://u:xxxxx@h:1/d",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.dsn, tc.opt.DSN())
			assert.Equal(t, tc.redacted, tc.opt.Redacted())
		})
	}
}

func TestNilClient(t *testing.T) {
	var c *Client
	assert.Nil(t, c.DB())
	assert.NoError(t, c.Close())
}
