package agent

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mpavic/stagehand/internal/shared/logging"
	"github.com/mpavic/stagehand/internal/shared/proto"
	"github.com/mpavic/stagehand/internal/submit"
)

// SubmitService executes RunTask requests on this host. It delegates to the
// local submitter, so agent-side execution behaves exactly like driver-side
// local execution: same log capture, same timeout kill, same exit handling.
type SubmitService struct {
	proto.UnimplementedSubmitServiceServer

	local  *submit.Local
	logger logging.Logger
}

func NewSubmitService(logger logging.Logger) *SubmitService {
	return &SubmitService{
		local:  submit.NewLocal(),
		logger: logger,
	}
}

func (s *SubmitService) RunTask(ctx context.Context, req *proto.RunTaskRequest) (*proto.RunTaskResponse, error) {
	taskID, err := uuid.Parse(req.TaskId)
	if err != nil {
		taskID = uuid.New()
	}

	s.logger.Info("Running task",
		"task_id", req.TaskId,
		"argv", req.Argv,
		"log_path", req.LogPath,
	)

	spec := submit.Spec{
		TaskID:  taskID,
		Argv:    req.Argv,
		LogPath: req.LogPath,
		Resources: submit.ResourceRequest{
			CPUSlots:    int(req.CpuSlots),
			GPUCount:    int(req.GpuCount),
			MemoryBytes: req.MemoryBytes,
			Timeout:     time.Duration(req.TimeoutMs) * time.Millisecond,
		},
	}

	result, err := s.local.Submit(ctx, spec)
	if err != nil {
		s.logger.Error("Task could not be spawned", "task_id", req.TaskId, "error", err)
		return &proto.RunTaskResponse{
			ExitCode: -1,
			LogPath:  req.LogPath,
			Message:  err.Error(),
		}, nil
	}

	s.logger.Info("Task finished",
		"task_id", req.TaskId,
		"exit_code", result.ExitCode,
		"timed_out", result.TimedOut,
	)

	return &proto.RunTaskResponse{
		ExitCode: int32(result.ExitCode),
		LogPath:  result.LogPath,
		TimedOut: result.TimedOut,
	}, nil
}
