// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GameGate Contributors

//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"sync"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/dsweb/gamegate/internal/result"
)

func (s *stack) call(op string, req map[string]any) (int, map[string]any) {
	data, err := json.Marshal(req)
	Expect(err).NotTo(HaveOccurred())

	resp, err := http.Post(s.server.URL+"/api/"+op, "application/json", bytes.NewReader(data)) //nolint:noctx // test
	Expect(err).NotTo(HaveOccurred())
	defer resp.Body.Close()

	var body map[string]any
	Expect(json.NewDecoder(resp.Body).Decode(&body)).To(Succeed())
	return resp.StatusCode, body
}

func codeOf(body map[string]any) result.Code {
	f, _ := body["resultCode"].(float64)
	return result.Code(int(f))
}

var _ = Describe("Gateway over PostgreSQL", func() {
	var s *stack

	BeforeEach(func() {
		s = newStack()
	})

	It("creates, logs in, reads and logs out", func() {
		status, body := s.call("CreateUser", map[string]any{"userName": "alice", "userPass": "p1", "charType": 0})
		Expect(status).To(Equal(http.StatusOK))
		Expect(codeOf(body)).To(Equal(result.Success))

		_, body = s.call("Login", map[string]any{"userName": "alice", "userPass": "wrong"})
		Expect(codeOf(body)).To(Equal(result.UserPassNotMatch))

		_, body = s.call("Login", map[string]any{"userName": "alice", "userPass": "p1"})
		Expect(codeOf(body)).To(Equal(result.Success))
		token := body["token"]
		Expect(token).NotTo(BeEmpty())

		status, body = s.call("UserInfo", map[string]any{"token": token})
		Expect(status).To(Equal(http.StatusOK))
		Expect(body["userName"]).To(Equal("alice"))

		status, body = s.call("LogOut", map[string]any{"token": token})
		Expect(status).To(Equal(http.StatusOK))
		Expect(codeOf(body)).To(Equal(result.Success))
	})

	It("records the issued token on the user", func() {
		s.call("CreateUser", map[string]any{"userName": "bob", "userPass": "pw"})
		_, body := s.call("Login", map[string]any{"userName": "bob", "userPass": "pw"})

		var stored string
		Expect(pool.QueryRow(context.Background(), "SELECT token FROM user_info WHERE user_name = $1", "bob").
			Scan(&stored)).To(Succeed())
		Expect(stored).To(Equal(body["token"]))
	})

	It("reports a duplicate registration", func() {
		_, body := s.call("CreateUser", map[string]any{"userName": "carol", "userPass": "pw"})
		Expect(codeOf(body)).To(Equal(result.Success))

		_, body = s.call("CreateUser", map[string]any{"userName": "carol", "userPass": "pw"})
		Expect(codeOf(body)).To(Equal(result.UserAlreadyExistInfo))
	})

	It("lets one of many concurrent registrations succeed", func() {
		const callers = 12
		var (
			wg    sync.WaitGroup
			mu    sync.Mutex
			codes = map[result.Code]int{}
		)
		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func() {
				defer GinkgoRecover()
				defer wg.Done()
				_, body := s.call("CreateUser", map[string]any{"userName": "dana", "userPass": "pw"})
				mu.Lock()
				codes[codeOf(body)]++
				mu.Unlock()
			}()
		}
		wg.Wait()

		Expect(codes[result.Success]).To(Equal(1))
		Expect(codes[result.UserAlreadyExistInfo]).To(Equal(callers - 1))
	})
})
