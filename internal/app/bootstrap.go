package app

import (
	"errors"
	"fmt"

	"github.com/parlevel-next/internal/cache"
	"github.com/parlevel-next/internal/config"
	"github.com/parlevel-next/internal/provider"
	"github.com/parlevel-next/internal/router"
	"github.com/parlevel-next/internal/worker"

	"go.uber.org/zap"
)

// ErrInvalidMode 启动模式无效
var ErrInvalidMode = errors.New("invalid start mode")

// BuildRunner 构建服务运行器
func BuildRunner(cfg *config.Config, mode string, log *zap.SugaredLogger) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if err := validateMode(mode); err != nil {
		return nil, err
	}

	container := provider.NewContainer(cfg)
	services, err := buildServices(cfg, container, mode, log)
	if err != nil {
		closeContainer(container, log)
		return nil, err
	}
	runner := NewRunner(services...)
	runner.onStop = func() { closeContainer(container, log) }
	return runner, nil
}

func validateMode(mode string) error {
	switch mode {
	case ModeAll, ModeAPI, ModeWorker:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}
}

// buildServices 按模式组装 HTTP 与 Worker 服务
func buildServices(cfg *config.Config, container *provider.Container, mode string, log *zap.SugaredLogger) ([]Service, error) {
	var services []Service

	if mode == ModeAll || mode == ModeAPI {
		engine := router.SetupRouter(cfg, container)
		addr := cfg.Server.Host + ":" + cfg.Server.Port
		services = append(services, NewHTTPService(addr, engine))
	}

	if mode == ModeAll || mode == ModeWorker {
		if !cfg.Queue.Enabled {
			if mode == ModeWorker {
				return nil, errors.New("worker mode requires queue.enabled")
			}
			if log != nil {
				log.Warnw("app_worker_skipped", "reason", "queue_disabled")
			}
		} else {
			workerService, err := worker.NewService(&cfg.Queue, worker.NewConsumer(container))
			if err != nil {
				return nil, err
			}
			services = append(services, workerService)
		}
	}

	if len(services) == 0 {
		return nil, errors.New("no services initialized (check mode and config)")
	}
	return services, nil
}

func closeContainer(container *provider.Container, log *zap.SugaredLogger) {
	if container != nil && container.QueueClient != nil {
		if err := container.QueueClient.Close(); err != nil && log != nil {
			log.Warnw("app_queue_client_close_failed", "error", err)
		}
	}
	if err := cache.Close(); err != nil && log != nil {
		log.Warnw("app_redis_close_failed", "error", err)
	}
}

// Run 应用启动入口
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	runner, err := BuildRunner(opts.Config, opts.Mode, opts.Logger)
	if err != nil {
		return err
	}

	addr := opts.Config.Server.Host + ":" + opts.Config.Server.Port
	opts.Logger.Infow("app_start", "addr", addr, "mode", opts.Mode)
	return RunWithOptions(runner, opts)
}
