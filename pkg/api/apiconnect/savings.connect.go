// Package apiconnect wires the stash.v1.SavingsService messages to Connect
// handlers and clients.
package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/stash/pkg/api"
)

// SavingsServiceName is the fully-qualified name of the SavingsService service.
const SavingsServiceName = "stash.v1.SavingsService"

// Procedure names, used in interceptors and routing.
const (
	SavingsServiceInitializeUserProcedure        = "/stash.v1.SavingsService/InitializeUser"
	SavingsServiceUserExistsProcedure            = "/stash.v1.SavingsService/UserExists"
	SavingsServiceGetUserProcedure               = "/stash.v1.SavingsService/GetUser"
	SavingsServiceOpenPlanProcedure              = "/stash.v1.SavingsService/OpenPlan"
	SavingsServiceGetSavingsPlanProcedure        = "/stash.v1.SavingsService/GetSavingsPlan"
	SavingsServiceListSavingsPlansProcedure      = "/stash.v1.SavingsService/ListSavingsPlans"
	SavingsServiceCreateGroupSaveProcedure       = "/stash.v1.SavingsService/CreateGroupSave"
	SavingsServiceJoinGroupSaveProcedure         = "/stash.v1.SavingsService/JoinGroupSave"
	SavingsServiceContributeToGroupSaveProcedure = "/stash.v1.SavingsService/ContributeToGroupSave"
	SavingsServiceBreakGroupSaveProcedure        = "/stash.v1.SavingsService/BreakGroupSave"
	SavingsServiceGetGroupSaveProcedure          = "/stash.v1.SavingsService/GetGroupSave"
)

// SavingsServiceHandler is implemented by the server.
type SavingsServiceHandler interface {
	InitializeUser(context.Context, *connect.Request[api.InitializeUserRequest]) (*connect.Response[api.InitializeUserResponse], error)
	UserExists(context.Context, *connect.Request[api.UserExistsRequest]) (*connect.Response[api.UserExistsResponse], error)
	GetUser(context.Context, *connect.Request[api.GetUserRequest]) (*connect.Response[api.GetUserResponse], error)
	OpenPlan(context.Context, *connect.Request[api.OpenPlanRequest]) (*connect.Response[api.OpenPlanResponse], error)
	GetSavingsPlan(context.Context, *connect.Request[api.GetSavingsPlanRequest]) (*connect.Response[api.GetSavingsPlanResponse], error)
	ListSavingsPlans(context.Context, *connect.Request[api.ListSavingsPlansRequest]) (*connect.Response[api.ListSavingsPlansResponse], error)
	CreateGroupSave(context.Context, *connect.Request[api.CreateGroupSaveRequest]) (*connect.Response[api.CreateGroupSaveResponse], error)
	JoinGroupSave(context.Context, *connect.Request[api.JoinGroupSaveRequest]) (*connect.Response[api.JoinGroupSaveResponse], error)
	ContributeToGroupSave(context.Context, *connect.Request[api.ContributeToGroupSaveRequest]) (*connect.Response[api.ContributeToGroupSaveResponse], error)
	BreakGroupSave(context.Context, *connect.Request[api.BreakGroupSaveRequest]) (*connect.Response[api.BreakGroupSaveResponse], error)
	GetGroupSave(context.Context, *connect.Request[api.GetGroupSaveRequest]) (*connect.Response[api.GetGroupSaveResponse], error)
}

// SavingsServiceClient is a client for the SavingsService.
type SavingsServiceClient interface {
	InitializeUser(context.Context, *connect.Request[api.InitializeUserRequest]) (*connect.Response[api.InitializeUserResponse], error)
	UserExists(context.Context, *connect.Request[api.UserExistsRequest]) (*connect.Response[api.UserExistsResponse], error)
	GetUser(context.Context, *connect.Request[api.GetUserRequest]) (*connect.Response[api.GetUserResponse], error)
	OpenPlan(context.Context, *connect.Request[api.OpenPlanRequest]) (*connect.Response[api.OpenPlanResponse], error)
	GetSavingsPlan(context.Context, *connect.Request[api.GetSavingsPlanRequest]) (*connect.Response[api.GetSavingsPlanResponse], error)
	ListSavingsPlans(context.Context, *connect.Request[api.ListSavingsPlansRequest]) (*connect.Response[api.ListSavingsPlansResponse], error)
	CreateGroupSave(context.Context, *connect.Request[api.CreateGroupSaveRequest]) (*connect.Response[api.CreateGroupSaveResponse], error)
	JoinGroupSave(context.Context, *connect.Request[api.JoinGroupSaveRequest]) (*connect.Response[api.JoinGroupSaveResponse], error)
	ContributeToGroupSave(context.Context, *connect.Request[api.ContributeToGroupSaveRequest]) (*connect.Response[api.ContributeToGroupSaveResponse], error)
	BreakGroupSave(context.Context, *connect.Request[api.BreakGroupSaveRequest]) (*connect.Response[api.BreakGroupSaveResponse], error)
	GetGroupSave(context.Context, *connect.Request[api.GetGroupSaveRequest]) (*connect.Response[api.GetGroupSaveResponse], error)
}

// NewSavingsServiceHandler builds an HTTP handler for every SavingsService
// procedure. It returns the path to mount the handler on.
func NewSavingsServiceHandler(svc SavingsServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)

	mux := http.NewServeMux()
	mux.Handle(SavingsServiceInitializeUserProcedure, connect.NewUnaryHandler(SavingsServiceInitializeUserProcedure, svc.InitializeUser, opts...))
	mux.Handle(SavingsServiceUserExistsProcedure, connect.NewUnaryHandler(SavingsServiceUserExistsProcedure, svc.UserExists, opts...))
	mux.Handle(SavingsServiceGetUserProcedure, connect.NewUnaryHandler(SavingsServiceGetUserProcedure, svc.GetUser, opts...))
	mux.Handle(SavingsServiceOpenPlanProcedure, connect.NewUnaryHandler(SavingsServiceOpenPlanProcedure, svc.OpenPlan, opts...))
	mux.Handle(SavingsServiceGetSavingsPlanProcedure, connect.NewUnaryHandler(SavingsServiceGetSavingsPlanProcedure, svc.GetSavingsPlan, opts...))
	mux.Handle(SavingsServiceListSavingsPlansProcedure, connect.NewUnaryHandler(SavingsServiceListSavingsPlansProcedure, svc.ListSavingsPlans, opts...))
	mux.Handle(SavingsServiceCreateGroupSaveProcedure, connect.NewUnaryHandler(SavingsServiceCreateGroupSaveProcedure, svc.CreateGroupSave, opts...))
	mux.Handle(SavingsServiceJoinGroupSaveProcedure, connect.NewUnaryHandler(SavingsServiceJoinGroupSaveProcedure, svc.JoinGroupSave, opts...))
	mux.Handle(SavingsServiceContributeToGroupSaveProcedure, connect.NewUnaryHandler(SavingsServiceContributeToGroupSaveProcedure, svc.ContributeToGroupSave, opts...))
	mux.Handle(SavingsServiceBreakGroupSaveProcedure, connect.NewUnaryHandler(SavingsServiceBreakGroupSaveProcedure, svc.BreakGroupSave, opts...))
	mux.Handle(SavingsServiceGetGroupSaveProcedure, connect.NewUnaryHandler(SavingsServiceGetGroupSaveProcedure, svc.GetGroupSave, opts...))
	return "/" + SavingsServiceName + "/", mux
}

// NewSavingsServiceClient constructs a client for the SavingsService at
// baseURL, for example http://localhost:8080.
func NewSavingsServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) SavingsServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(jsonCodec{})}, opts...)
	return &savingsServiceClient{
		initializeUser:        connect.NewClient[api.InitializeUserRequest, api.InitializeUserResponse](httpClient, baseURL+SavingsServiceInitializeUserProcedure, opts...),
		userExists:            connect.NewClient[api.UserExistsRequest, api.UserExistsResponse](httpClient, baseURL+SavingsServiceUserExistsProcedure, opts...),
		getUser:               connect.NewClient[api.GetUserRequest, api.GetUserResponse](httpClient, baseURL+SavingsServiceGetUserProcedure, opts...),
		openPlan:              connect.NewClient[api.OpenPlanRequest, api.OpenPlanResponse](httpClient, baseURL+SavingsServiceOpenPlanProcedure, opts...),
		getSavingsPlan:        connect.NewClient[api.GetSavingsPlanRequest, api.GetSavingsPlanResponse](httpClient, baseURL+SavingsServiceGetSavingsPlanProcedure, opts...),
		listSavingsPlans:      connect.NewClient[api.ListSavingsPlansRequest, api.ListSavingsPlansResponse](httpClient, baseURL+SavingsServiceListSavingsPlansProcedure, opts...),
		createGroupSave:       connect.NewClient[api.CreateGroupSaveRequest, api.CreateGroupSaveResponse](httpClient, baseURL+SavingsServiceCreateGroupSaveProcedure, opts...),
		joinGroupSave:         connect.NewClient[api.JoinGroupSaveRequest, api.JoinGroupSaveResponse](httpClient, baseURL+SavingsServiceJoinGroupSaveProcedure, opts...),
		contributeToGroupSave: connect.NewClient[api.ContributeToGroupSaveRequest, api.ContributeToGroupSaveResponse](httpClient, baseURL+SavingsServiceContributeToGroupSaveProcedure, opts...),
		breakGroupSave:        connect.NewClient[api.BreakGroupSaveRequest, api.BreakGroupSaveResponse](httpClient, baseURL+SavingsServiceBreakGroupSaveProcedure, opts...),
		getGroupSave:          connect.NewClient[api.GetGroupSaveRequest, api.GetGroupSaveResponse](httpClient, baseURL+SavingsServiceGetGroupSaveProcedure, opts...),
	}
}

type savingsServiceClient struct {
	initializeUser        *connect.Client[api.InitializeUserRequest, api.InitializeUserResponse]
	userExists            *connect.Client[api.UserExistsRequest, api.UserExistsResponse]
	getUser               *connect.Client[api.GetUserRequest, api.GetUserResponse]
	openPlan              *connect.Client[api.OpenPlanRequest, api.OpenPlanResponse]
	getSavingsPlan        *connect.Client[api.GetSavingsPlanRequest, api.GetSavingsPlanResponse]
	listSavingsPlans      *connect.Client[api.ListSavingsPlansRequest, api.ListSavingsPlansResponse]
	createGroupSave       *connect.Client[api.CreateGroupSaveRequest, api.CreateGroupSaveResponse]
	joinGroupSave         *connect.Client[api.JoinGroupSaveRequest, api.JoinGroupSaveResponse]
	contributeToGroupSave *connect.Client[api.ContributeToGroupSaveRequest, api.ContributeToGroupSaveResponse]
	breakGroupSave        *connect.Client[api.BreakGroupSaveRequest, api.BreakGroupSaveResponse]
	getGroupSave          *connect.Client[api.GetGroupSaveRequest, api.GetGroupSaveResponse]
}

func (c *savingsServiceClient) InitializeUser(ctx context.Context, req *connect.Request[api.InitializeUserRequest]) (*connect.Response[api.InitializeUserResponse], error) {
	return c.initializeUser.CallUnary(ctx, req)
}

func (c *savingsServiceClient) UserExists(ctx context.Context, req *connect.Request[api.UserExistsRequest]) (*connect.Response[api.UserExistsResponse], error) {
	return c.userExists.CallUnary(ctx, req)
}

func (c *savingsServiceClient) GetUser(ctx context.Context, req *connect.Request[api.GetUserRequest]) (*connect.Response[api.GetUserResponse], error) {
	return c.getUser.CallUnary(ctx, req)
}

func (c *savingsServiceClient) OpenPlan(ctx context.Context, req *connect.Request[api.OpenPlanRequest]) (*connect.Response[api.OpenPlanResponse], error) {
	return c.openPlan.CallUnary(ctx, req)
}

func (c *savingsServiceClient) GetSavingsPlan(ctx context.Context, req *connect.Request[api.GetSavingsPlanRequest]) (*connect.Response[api.GetSavingsPlanResponse], error) {
	return c.getSavingsPlan.CallUnary(ctx, req)
}

func (c *savingsServiceClient) ListSavingsPlans(ctx context.Context, req *connect.Request[api.ListSavingsPlansRequest]) (*connect.Response[api.ListSavingsPlansResponse], error) {
	return c.listSavingsPlans.CallUnary(ctx, req)
}

func (c *savingsServiceClient) CreateGroupSave(ctx context.Context, req *connect.Request[api.CreateGroupSaveRequest]) (*connect.Response[api.CreateGroupSaveResponse], error) {
	return c.createGroupSave.CallUnary(ctx, req)
}

func (c *savingsServiceClient) JoinGroupSave(ctx context.Context, req *connect.Request[api.JoinGroupSaveRequest]) (*connect.Response[api.JoinGroupSaveResponse], error) {
	return c.joinGroupSave.CallUnary(ctx, req)
}

func (c *savingsServiceClient) ContributeToGroupSave(ctx context.Context, req *connect.Request[api.ContributeToGroupSaveRequest]) (*connect.Response[api.ContributeToGroupSaveResponse], error) {
	return c.contributeToGroupSave.CallUnary(ctx, req)
}

func (c *savingsServiceClient) BreakGroupSave(ctx context.Context, req *connect.Request[api.BreakGroupSaveRequest]) (*connect.Response[api.BreakGroupSaveResponse], error) {
	return c.breakGroupSave.CallUnary(ctx, req)
}

func (c *savingsServiceClient) GetGroupSave(ctx context.Context, req *connect.Request[api.GetGroupSaveRequest]) (*connect.Response[api.GetGroupSaveResponse], error) {
	return c.getGroupSave.CallUnary(ctx, req)
}
