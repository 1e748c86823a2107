package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"
	"github.com/go-playground/validator/v10"

	"github.com/mmynk/stash/internal/metrics"
	"github.com/mmynk/stash/internal/middleware"
	"github.com/mmynk/stash/internal/savings"
	"github.com/mmynk/stash/pkg/api"
	"github.com/mmynk/stash/pkg/api/apiconnect"
)

var _ apiconnect.SavingsServiceHandler = (*SavingsService)(nil)

// SavingsService implements the Connect SavingsService on top of the ledger.
// The acting user of every mutating call is the authenticated caller.
type SavingsService struct {
	ledger   *savings.Ledger
	metrics  *metrics.Metrics
	validate *validator.Validate
	logger   *slog.Logger
}

// NewSavingsService creates a new SavingsService.
func NewSavingsService(ledger *savings.Ledger, m *metrics.Metrics, logger *slog.Logger) *SavingsService {
	return &SavingsService{
		ledger:   ledger,
		metrics:  m,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

// PublicProcedures are the read-only calls served without a bearer token.
var PublicProcedures = []string{
	apiconnect.SavingsServiceUserExistsProcedure,
	apiconnect.SavingsServiceGetUserProcedure,
	apiconnect.SavingsServiceGetGroupSaveProcedure,
}

// caller returns the authenticated address.
func (s *SavingsService) caller(ctx context.Context) (string, error) {
	address := middleware.GetAddress(ctx)
	if address == "" {
		return "", toConnectError(savings.ErrUnauthorized)
	}
	return address, nil
}

func (s *SavingsService) check(msg any) error {
	if err := s.validate.Struct(msg); err != nil {
		return toConnectError(err)
	}
	return nil
}

// InitializeUser creates the caller's ledger record.
func (s *SavingsService) InitializeUser(ctx context.Context, req *connect.Request[api.InitializeUserRequest]) (*connect.Response[api.InitializeUserResponse], error) {
	address, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("InitializeUser request received", "address", address)

	if err := s.ledger.InitializeUser(ctx, address); err != nil {
		s.logger.Error("InitializeUser failed", "address", address, "error", err)
		return nil, toConnectError(err)
	}

	user, err := s.ledger.GetUser(ctx, address)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.InitializeUserResponse{User: toAPIUser(user)}), nil
}

// UserExists reports whether an address has been initialized. It never fails.
func (s *SavingsService) UserExists(ctx context.Context, req *connect.Request[api.UserExistsRequest]) (*connect.Response[api.UserExistsResponse], error) {
	exists := s.ledger.UserExists(ctx, req.Msg.Address)
	return connect.NewResponse(&api.UserExistsResponse{Exists: exists}), nil
}

// GetUser returns the ledger record of any address.
func (s *SavingsService) GetUser(ctx context.Context, req *connect.Request[api.GetUserRequest]) (*connect.Response[api.GetUserResponse], error) {
	user, err := s.ledger.GetUser(ctx, req.Msg.Address)
	if err != nil {
		s.logger.Debug("GetUser failed", "address", req.Msg.Address, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.GetUserResponse{User: toAPIUser(user)}), nil
}

// OpenPlan registers an individual plan for the caller.
func (s *SavingsService) OpenPlan(ctx context.Context, req *connect.Request[api.OpenPlanRequest]) (*connect.Response[api.OpenPlanResponse], error) {
	owner, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.check(req.Msg); err != nil {
		return nil, err
	}

	planType, err := fromAPIPlanType(req.Msg.Type)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	s.logger.Info("OpenPlan request received", "owner", owner, "kind", planType.Kind())

	planID, err := s.ledger.OpenPlan(ctx, owner, planType, req.Msg.StartTime, req.Msg.InterestRate)
	if err != nil {
		s.logger.Error("OpenPlan failed", "owner", owner, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.OpenPlanResponse{PlanID: planID}), nil
}

// GetSavingsPlan returns one of the caller's plans.
func (s *SavingsService) GetSavingsPlan(ctx context.Context, req *connect.Request[api.GetSavingsPlanRequest]) (*connect.Response[api.GetSavingsPlanResponse], error) {
	owner, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.check(req.Msg); err != nil {
		return nil, err
	}

	plan, err := s.ledger.GetSavingsPlan(ctx, owner, req.Msg.PlanID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.GetSavingsPlanResponse{Plan: toAPIPlan(plan)}), nil
}

// ListSavingsPlans returns every plan the caller owns.
func (s *SavingsService) ListSavingsPlans(ctx context.Context, req *connect.Request[api.ListSavingsPlansRequest]) (*connect.Response[api.ListSavingsPlansResponse], error) {
	owner, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}

	plans, err := s.ledger.ListSavingsPlans(ctx, owner)
	if err != nil {
		return nil, toConnectError(err)
	}

	out := make([]*api.SavingsPlan, len(plans))
	for i, p := range plans {
		out[i] = toAPIPlan(p)
	}
	return connect.NewResponse(&api.ListSavingsPlansResponse{Plans: out}), nil
}

// CreateGroupSave creates a group plan with the caller as first member.
func (s *SavingsService) CreateGroupSave(ctx context.Context, req *connect.Request[api.CreateGroupSaveRequest]) (*connect.Response[api.CreateGroupSaveResponse], error) {
	creator, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.check(req.Msg); err != nil {
		return nil, err
	}
	s.logger.Info("CreateGroupSave request received",
		"creator", creator,
		"title", req.Msg.Title,
		"target_amount", req.Msg.TargetAmount.String(),
	)

	planID, err := s.ledger.CreateGroupSave(ctx, creator, savings.GroupSaveParams{
		Title:              req.Msg.Title,
		Description:        req.Msg.Description,
		Category:           req.Msg.Category,
		TargetAmount:       req.Msg.TargetAmount,
		ContributionType:   req.Msg.ContributionType,
		ContributionAmount: req.Msg.ContributionAmount,
		IsPublic:           req.Msg.IsPublic,
		StartTime:          req.Msg.StartTime,
		EndTime:            req.Msg.EndTime,
	})
	if err != nil {
		s.logger.Error("CreateGroupSave failed", "creator", creator, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.CreateGroupSaveResponse{PlanID: planID}), nil
}

// JoinGroupSave adds the caller to a group.
func (s *SavingsService) JoinGroupSave(ctx context.Context, req *connect.Request[api.JoinGroupSaveRequest]) (*connect.Response[api.JoinGroupSaveResponse], error) {
	address, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.check(req.Msg); err != nil {
		return nil, err
	}

	if err := s.ledger.JoinGroupSave(ctx, address, req.Msg.PlanID); err != nil {
		s.logger.Warn("JoinGroupSave failed", "address", address, "plan_id", req.Msg.PlanID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.JoinGroupSaveResponse{}), nil
}

// ContributeToGroupSave moves an amount from the caller into a group pool.
func (s *SavingsService) ContributeToGroupSave(ctx context.Context, req *connect.Request[api.ContributeToGroupSaveRequest]) (*connect.Response[api.ContributeToGroupSaveResponse], error) {
	address, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.check(req.Msg); err != nil {
		return nil, err
	}

	res, err := s.ledger.ContributeToGroupSave(ctx, address, req.Msg.PlanID, req.Msg.Amount)
	if err != nil {
		s.logger.Warn("ContributeToGroupSave failed",
			"address", address,
			"plan_id", req.Msg.PlanID,
			"amount", req.Msg.Amount.String(),
			"error", err,
		)
		return nil, toConnectError(err)
	}

	s.metrics.GroupContributions.Inc()
	if res.Completed {
		s.metrics.GroupsCompleted.Inc()
	}

	return connect.NewResponse(&api.ContributeToGroupSaveResponse{
		PlanBalance:        res.PlanBalance,
		MemberContribution: res.MemberContribution,
		Completed:          res.Completed,
	}), nil
}

// BreakGroupSave removes the caller from a group and refunds their contribution.
func (s *SavingsService) BreakGroupSave(ctx context.Context, req *connect.Request[api.BreakGroupSaveRequest]) (*connect.Response[api.BreakGroupSaveResponse], error) {
	address, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.check(req.Msg); err != nil {
		return nil, err
	}

	refund, err := s.ledger.BreakGroupSave(ctx, address, req.Msg.PlanID)
	if err != nil {
		s.logger.Warn("BreakGroupSave failed", "address", address, "plan_id", req.Msg.PlanID, "error", err)
		return nil, toConnectError(err)
	}

	if refund.IsPositive() {
		s.metrics.GroupRefunds.Inc()
	}
	return connect.NewResponse(&api.BreakGroupSaveResponse{Refund: refund}), nil
}

// GetGroupSave returns a group with its members and progress.
func (s *SavingsService) GetGroupSave(ctx context.Context, req *connect.Request[api.GetGroupSaveRequest]) (*connect.Response[api.GetGroupSaveResponse], error) {
	if err := s.check(req.Msg); err != nil {
		return nil, err
	}

	summary, err := s.ledger.GetGroupSave(ctx, req.Msg.PlanID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.GetGroupSaveResponse{
		Plan:     toAPIPlan(summary.Plan),
		Members:  toAPIMembers(summary.Members),
		Progress: toAPIProgress(summary.Progress),
	}), nil
}
