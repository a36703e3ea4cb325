package cron

import (
	log "log/slog"

	"github.com/robfig/cron/v3"
)

// Manager 管理定时任务引擎，表达式带秒字段
type Manager struct {
	engine        *cron.Cron
	reconcileSpec string
	reconcileJob  cron.Job
}

func NewCronManager(reconcileSpec string, reconcileJob cron.Job) *Manager {
	return &Manager{
		engine:        cron.New(cron.WithSeconds()),
		reconcileSpec: reconcileSpec,
		reconcileJob:  reconcileJob,
	}
}

// RegisterJobs 注册定时任务，表达式为空的任务跳过
func (s *Manager) RegisterJobs() error {
	if s.reconcileSpec == "" || s.reconcileJob == nil {
		log.Info("Reconcile cron disabled")
		return nil
	}
	if _, err := s.engine.AddJob(s.reconcileSpec, s.reconcileJob); err != nil {
		return err
	}
	log.Info("Reconcile cron registered", "spec", s.reconcileSpec)
	return nil
}

// Entries 已注册的任务数
func (s *Manager) Entries() int {
	return len(s.engine.Entries())
}

func (s *Manager) Start() {
	log.Info("Cron 定时任务引擎启动")
	s.engine.Start()
}

func (s *Manager) Stop() {
	log.Info("Cron 定时任务引擎停止")
	<-s.engine.Stop().Done()
}
