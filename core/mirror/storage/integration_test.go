//go:build integration

package storage

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type StoreTestSuite struct {
	suite.Suite
	store *SQL
}

func (suite *StoreTestSuite) SetupTest() {
	t := suite.T()
	dsn := os.Getenv("WEB3_TEST_DSN")
	if dsn == "" {
		t.Skip("WEB3_TEST_DSN not set")
	}

	ctx := context.Background()
	db, dialect, err := open(Config{DSN: dsn, Driver: DriverPG})
	require.NoError(t, err)
	suite.store = NewSQL(db, dialect)
	require.NoError(t, suite.store.Ping(ctx))

	bdb := suite.store.DB()
	for _, table := range fixtureTables {
		_, err := bdb.NewDropTable().Model(table).IfExists().Exec(ctx)
		require.NoError(t, err)
	}
	t.Cleanup(func() {
		for _, table := range fixtureTables {
			_, _ = bdb.NewDropTable().Model(table).IfExists().Exec(ctx)
		}
		_ = db.Close()
	})
	newFixture().loadInto(t, bdb)
}

func TestStoreTestSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

func (suite *StoreTestSuite) TestStorageContract() {
	checkStorageContract(suite.T(), suite.store)
}

func (suite *StoreTestSuite) TestNewStorageCached() {
	t := suite.T()
	store, err := NewStorage(context.Background(), Config{DSN: os.Getenv("WEB3_TEST_DSN"), Driver: DriverPostgres, CacheSizeMB: 1})
	require.NoError(t, err)
	checkStorageContract(t, store)
}
