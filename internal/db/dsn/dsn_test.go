package dsn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usermgmt-go/usermgmt/internal/config"
)

func TestCreate(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.DB
		want string
	}{
		{
			name: "sqlite file",
			cfg:  config.DB{GormEngine: config.EngineSQLite, Path: "./usermanagement.db"},
			want: "./usermanagement.db?_pragma=foreign_keys(1)",
		},
		{
			name: "sqlite memory with extras",
			cfg:  config.DB{GormEngine: config.EngineSQLite, Path: "file::memory:?cache=shared", Extras: "_pragma=busy_timeout(5000)"},
			want: "file::memory:?cache=shared&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)",
		},
		{
			name: "empty engine is sqlite",
			cfg:  config.DB{Path: "a.db"},
			want: "a.db?_pragma=foreign_keys(1)",
		},
		{
			name: "mysql defaults",
			cfg:  config.DB{GormEngine: config.EngineMySQL, User: "u", Password: "p", Host: "db", Name: "users"},
			want: "u:p@tcp(db:3306)/users?charset=utf8mb4&parseTime=True&loc=UTC&clientFoundRows=true",
		},
		{
			name: "mysql extras",
			cfg: config.DB{
				GormEngine: config.EngineMySQL, User: "u", Password: "p", Host: "db", Port: 3307, Name: "users",
				Extras: "parseTime=True",
			},
			want: "u:p@tcp(db:3307)/users?parseTime=True",
		},
		{
			name: "postgres",
			cfg: config.DB{
				GormEngine: config.EnginePostgres, User: "u", Password: "p", Host: "pg", Name: "users",
				Extras: "sslmode=disable",
			},
			want: "host=pg port=5432 user=u password=p dbname=users sslmode=disable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Create(&tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCreateUnsupported(t *testing.T) {
	_, err := Create(&config.DB{GormEngine: "oracle"})
	require.ErrorIs(t, err, config.ErrUnsupportedEngine)
}
