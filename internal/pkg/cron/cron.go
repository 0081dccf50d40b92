package cron

import (
	"context"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/petguard/petguard_go_server/internal/pkg/readcount"
)

type Service struct {
	counter       *readcount.Counter
	db            *gorm.DB
	flushInterval time.Duration
	stopChan      chan struct{}
}

func NewService(counter *readcount.Counter, db *gorm.DB, flushInterval time.Duration) *Service {
	if flushInterval <= 0 {
		flushInterval = time.Minute
	}
	return &Service{
		counter:       counter,
		db:            db,
		flushInterval: flushInterval,
		stopChan:      make(chan struct{}),
	}
}

// Start 启动定时任务
func (s *Service) Start() {
	go s.runReadCountFlush()
	log.Println("Cron service started (read count flush)")
}

// Stop 停止定时任务
func (s *Service) Stop() {
	close(s.stopChan)
	log.Println("Cron service stopped")
}

// runReadCountFlush 周期性把 Redis 中的阅读数刷回数据库
func (s *Service) runReadCountFlush() {
	ticker := time.NewTicker(s.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			// 退出前最后刷一次
			s.flushReadCounts()
			return
		case <-ticker.C:
			s.flushReadCounts()
		}
	}
}

func (s *Service) flushReadCounts() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	flushed, err := s.counter.Flush(ctx, s.db)
	if err != nil {
		log.Printf("Failed to flush read counts: %v", err)
		return
	}
	if flushed > 0 {
		log.Printf("Read counts flushed for %d posts", flushed)
	}
}

// RunNow 立即执行一次刷库（用于测试或手动触发）
func (s *Service) RunNow() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, err := s.counter.Flush(ctx, s.db)
	return err
}
