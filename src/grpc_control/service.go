package grpc_control

import (
	"context"
	"encoding/json"
	"errors"

	"sales-observer/src/helpers"
	"sales-observer/src/interfaces"
	"sales-observer/src/logger"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// ControlService implements AnalyticsControlServer on top of the session.
type ControlService struct {
	Service interfaces.IAnalyticsService
	Logger  *logger.Logger
}

// NewControlService creates a new instance of ControlService
func NewControlService(svc interfaces.IAnalyticsService, log *logger.Logger) *ControlService {
	return &ControlService{Service: svc, Logger: log}
}

// -----------------------------------------------------------------------------

func (s *ControlService) GetStatus(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error) {
	return toStruct(s.Service.Status())
}

// -----------------------------------------------------------------------------

func (s *ControlService) GetReport(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error) {
	report, err := s.Service.Latest()
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(report)
}

// -----------------------------------------------------------------------------

func (s *ControlService) Reload(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error) {
	s.Logger.Info("Reload requested over gRPC")

	report, err := s.Service.Refresh(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(map[string]interface{}{
		"run_id":             report.RunID,
		"processing_metrics": report.Metrics,
	})
}

// -----------------------------------------------------------------------------

// toStruct converts any JSON-serialisable value via its JSON form.
func toStruct(v interface{}) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return out, nil
}

// -----------------------------------------------------------------------------

func toStatus(err error) error {
	var valErr *helpers.ValidationError
	var cfgErr *helpers.ConfigurationError
	var srcErr *helpers.DataSourceError
	switch {
	case errors.Is(err, helpers.ErrNoReport):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.As(err, &valErr):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.As(err, &cfgErr):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.As(err, &srcErr):
		return status.Error(codes.Unavailable, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
