package submit

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/keepalive"

	"github.com/mpavic/stagehand/internal/shared/proto"
)

// Remote submits tasks to a stagehand-agent over gRPC. The agent spawns the
// process on its own host and reports the exit status back; the log file
// lives on the agent's filesystem.
type Remote struct {
	conn   *grpc.ClientConn
	client proto.SubmitServiceClient

	agentAddr string
}

func NewRemote(agentAddr string) (*Remote, error) {
	conn, err := grpc.NewClient(
		agentAddr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithKeepaliveParams(
			keepalive.ClientParameters{
				Time:                10 * time.Second,
				Timeout:             5 * time.Second,
				PermitWithoutStream: true,
			},
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to agent: %w", err)
	}

	return &Remote{
		conn:      conn,
		client:    proto.NewSubmitServiceClient(conn),
		agentAddr: agentAddr,
	}, nil
}

func (r *Remote) Submit(ctx context.Context, spec Spec) (Result, error) {
	req := &proto.RunTaskRequest{
		TaskId:      spec.TaskID.String(),
		Argv:        spec.Argv,
		LogPath:     spec.LogPath,
		CpuSlots:    uint32(spec.Resources.CPUSlots),
		GpuCount:    uint32(spec.Resources.GPUCount),
		MemoryBytes: spec.Resources.MemoryBytes,
		TimeoutMs:   spec.Resources.Timeout.Milliseconds(),
	}

	resp, err := r.client.RunTask(ctx, req)
	if err != nil {
		return Result{}, fmt.Errorf("agent %s failed to run task %s: %w", r.agentAddr, spec.TaskID, err)
	}

	return Result{
		ExitCode: int(resp.ExitCode),
		LogPath:  resp.LogPath,
		TimedOut: resp.TimedOut,
	}, nil
}

func (r *Remote) Close() error {
	if r.conn == nil {
		return nil
	}
	return r.conn.Close()
}
