package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "postgres")
	t.Setenv("DATABASE_HOST", "db.internal")
	t.Setenv("APISERVER_PORT", "9000")
	t.Setenv("KAFKA_ADDR", "k1:9092,k2:9092")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "postgres", cfg.Database.Driver)
	require.Equal(t, "db.internal", cfg.Database.Host)
	require.Equal(t, "9000", cfg.ApiServer.Port)
	require.Equal(t, "9090", cfg.PrometheusServer.Port)
	require.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers())
	require.Equal(t, "radiodraw", cfg.Kafka.ClientID)
}

func TestDatabaseConfigs_ConnectionString(t *testing.T) {
	tests := []struct {
		name string
		cfg  DatabaseConfigs
		want string
	}{
		{
			name: "mysql",
			cfg:  DatabaseConfigs{Driver: "mysql", User: "root", Password: "pw", Host: "h", Port: "3306", Database: "d"},
			want: "root:pw@tcp(h:3306)/d?charset=utf8mb4&parseTime=True&loc=UTC",
		},
		{
			name: "postgres",
			cfg:  DatabaseConfigs{Driver: "postgres", User: "u", Password: "pw", Host: "h", Port: "5432", Database: "d", SSLMode: "disable"},
			want: "host=h port=5432 user=u password=pw dbname=d sslmode=disable TimeZone=UTC",
		},
		{
			name: "sqlite",
			cfg:  DatabaseConfigs{Driver: "sqlite", Database: "file.db"},
			want: "file.db",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.cfg.ConnectionString())
		})
	}
}
