// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GameGate Contributors

//go:build integration

package postgres_test

import (
	"context"
	"sync"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/dsweb/gamegate/internal/auth/postgres"
)

var _ = Describe("UserGateway", func() {
	var (
		ctx     context.Context
		gateway *postgres.UserGateway
	)

	BeforeEach(func() {
		ctx = context.Background()
		truncateUsers(ctx)
		gateway = postgres.NewUserGateway(testPool, nil)
	})

	Describe("SelectByUserName", func() {
		It("returns nil for an unknown name", func() {
			rec, err := gateway.SelectByUserName(ctx, "nobody")
			Expect(err).NotTo(HaveOccurred())
			Expect(rec).To(BeNil())
		})

		It("returns the inserted record with defaults", func() {
			ok, err := gateway.InsertUser(ctx, "alice", "pw", 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())

			rec, err := gateway.SelectByUserName(ctx, "alice")
			Expect(err).NotTo(HaveOccurred())
			Expect(rec).NotTo(BeNil())
			Expect(rec.UserName).To(Equal("alice"))
			Expect(rec.UserPass).To(Equal("pw"))
			Expect(rec.CharType).To(Equal(2))
			Expect(rec.UserPoint).To(BeZero())
			Expect(rec.MaxScore).To(BeZero())
			Expect(rec.Token).To(BeEmpty())
			Expect(rec.CreateDate).NotTo(BeZero())
		})

		It("matches names case-sensitively", func() {
			_, err := gateway.InsertUser(ctx, "Alice", "pw", 0)
			Expect(err).NotTo(HaveOccurred())

			rec, err := gateway.SelectByUserName(ctx, "alice")
			Expect(err).NotTo(HaveOccurred())
			Expect(rec).To(BeNil())
		})
	})

	Describe("InsertUser", func() {
		It("reports false for a duplicate name", func() {
			ok, err := gateway.InsertUser(ctx, "bob", "pw", 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())

			ok, err = gateway.InsertUser(ctx, "bob", "other", 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeFalse())

			rec, err := gateway.SelectByUserName(ctx, "bob")
			Expect(err).NotTo(HaveOccurred())
			Expect(rec.UserPass).To(Equal("pw"))
		})

		It("lets exactly one concurrent insert win", func() {
			const writers = 16
			var (
				wg   sync.WaitGroup
				mu   sync.Mutex
				wins int
			)
			for i := 0; i < writers; i++ {
				wg.Add(1)
				go func() {
					defer GinkgoRecover()
					defer wg.Done()
					ok, err := gateway.InsertUser(ctx, "racer", "pw", 0)
					Expect(err).NotTo(HaveOccurred())
					if ok {
						mu.Lock()
						wins++
						mu.Unlock()
					}
				}()
			}
			wg.Wait()
			Expect(wins).To(Equal(1))
		})
	})

	Describe("UpdateToken", func() {
		It("records the token and bumps latest_date", func() {
			_, err := gateway.InsertUser(ctx, "carol", "pw", 0)
			Expect(err).NotTo(HaveOccurred())
			before, err := gateway.SelectByUserName(ctx, "carol")
			Expect(err).NotTo(HaveOccurred())

			ok, err := gateway.UpdateToken(ctx, "carol", "tok-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())

			after, err := gateway.SelectByUserName(ctx, "carol")
			Expect(err).NotTo(HaveOccurred())
			Expect(after.Token).To(Equal("tok-1"))
			Expect(after.LatestDate).To(BeTemporally(">=", before.LatestDate))
		})

		It("reports false for an unknown user", func() {
			ok, err := gateway.UpdateToken(ctx, "ghost", "tok")
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeFalse())
		})
	})
})
