// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GameGate Contributors

//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/dsweb/gamegate/internal/store"
)

func TestStore(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Store Suite")
}

var _ = Describe("OpenPostgres", func() {
	var (
		ctx       context.Context
		container *postgres.PostgresContainer
		connStr   string
	)

	BeforeEach(func() {
		ctx = context.Background()
		var err error
		container, err = postgres.Run(ctx,
			"postgres:16-alpine",
			postgres.WithDatabase("gamegate_test"),
			postgres.WithUsername("gamegate"),
			postgres.WithPassword("gamegate"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2)),
		)
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(func() { Expect(container.Terminate(context.Background())).To(Succeed()) })

		connStr, err = container.ConnectionString(ctx, "sslmode=disable")
		Expect(err).NotTo(HaveOccurred())
	})

	It("connects and sees the migrated procedures", func() {
		m, err := store.NewMigrator(connStr)
		Expect(err).NotTo(HaveOccurred())
		Expect(m.Up()).To(Succeed())
		Expect(m.Close()).To(Succeed())

		pool, err := store.OpenPostgres(ctx, connStr, store.DefaultRetryPolicy)
		Expect(err).NotTo(HaveOccurred())
		defer pool.Close()

		var n int
		Expect(pool.QueryRow(ctx,
			`SELECT count(*) FROM pg_proc WHERE proname IN ('select_user_info', 'insert_user_info', 'update_user_token')`).
			Scan(&n)).To(Succeed())
		Expect(n).To(Equal(3))
	})

	It("gives up on a stopped server", func() {
		Expect(container.Stop(ctx, nil)).To(Succeed())

		policy := store.RetryPolicy{Attempts: 2, Base: 50 * time.Millisecond, Cap: 100 * time.Millisecond}
		_, err := store.OpenPostgres(ctx, connStr, policy)
		Expect(err).To(HaveOccurred())
	})
})
