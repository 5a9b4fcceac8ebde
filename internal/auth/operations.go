// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GameGate Contributors

package auth

import (
	"context"

	"github.com/dsweb/gamegate/internal/gateway"
	"github.com/dsweb/gamegate/internal/protocol"
	"github.com/dsweb/gamegate/internal/result"
)

// Operation names as they appear in /api/{operation}.
const (
	OpLogin      = "Login"
	OpLogOut     = "LogOut"
	OpCreateUser = "CreateUser"
	OpUserInfo   = "UserInfo"
)

// Operations returns the gateway entries backed by svc.
func Operations(svc *Service) []gateway.Entry {
	return []gateway.Entry{
		gateway.Public[protocol.LoginRequest, protocol.LoginResponse](OpLogin, svc.handleLogin),
		gateway.Public[protocol.CreateUserRequest, protocol.CreateUserResponse](OpCreateUser, svc.handleCreateUser),
		gateway.SessionScoped[protocol.LogOutRequest, protocol.LogOutResponse](OpLogOut, svc.handleLogOut),
		gateway.SessionScoped[protocol.UserInfoRequest, protocol.UserInfoResponse](OpUserInfo, svc.handleUserInfo),
	}
}

// Register adds the user operations to reg.
func Register(reg *gateway.Registry, svc *Service) error {
	for _, e := range Operations(svc) {
		if err := reg.Register(e); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) handleLogin(ctx context.Context, req *protocol.LoginRequest) (*protocol.LoginResponse, error) {
	token, code, err := s.Login(ctx, req.UserName, req.UserPass)
	if err != nil {
		return nil, err
	}
	resp := &protocol.LoginResponse{Token: token}
	resp.SetResult(code)
	return resp, nil
}

func (s *Service) handleCreateUser(ctx context.Context, req *protocol.CreateUserRequest) (*protocol.CreateUserResponse, error) {
	code, err := s.CreateUser(ctx, req.UserName, req.UserPass, req.CharType)
	if err != nil {
		return nil, err
	}
	resp := &protocol.CreateUserResponse{}
	resp.SetResult(code)
	return resp, nil
}

func (s *Service) handleLogOut(ctx context.Context, req *protocol.LogOutRequest) (*protocol.LogOutResponse, error) {
	code, err := s.Logout(ctx, req.SessionToken())
	if err != nil {
		return nil, err
	}
	resp := &protocol.LogOutResponse{}
	resp.SetResult(code)
	return resp, nil
}

func (s *Service) handleUserInfo(ctx context.Context, _ *protocol.UserInfoRequest) (*protocol.UserInfoResponse, error) {
	owner, ok := gateway.OwnerFromContext(ctx)
	if !ok {
		return nil, result.Failure(result.Fail, OpUserInfo).Errorf("no session owner in context")
	}

	user, code, err := s.UserInfo(ctx, owner)
	if err != nil {
		return nil, err
	}
	resp := &protocol.UserInfoResponse{}
	resp.SetResult(code)
	if user != nil {
		resp.UserName = user.UserName
		resp.CharType = user.CharType
		resp.UserPoint = user.UserPoint
		resp.MaxScore = user.MaxScore
		resp.LatestDate = user.LatestDate
		resp.CreateDate = user.CreateDate
	}
	return resp, nil
}
