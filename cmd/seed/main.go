package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/sysu-ecnc-dev/room-schedule/backend/internal/config"
	"github.com/sysu-ecnc-dev/room-schedule/backend/internal/repository"
	"github.com/sysu-ecnc-dev/room-schedule/backend/internal/seed"
	"github.com/sysu-ecnc-dev/room-schedule/backend/internal/service"
	"github.com/sysu-ecnc-dev/room-schedule/backend/internal/storage"
)

func main() {
	var op int
	var n int

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机楼栋, 2: 插入随机房间, 3: 插入随机班次, 4: 插入随机医生, 5: 插入示例数据, 6: 清空所有数据)")
	flag.IntVar(&n, "n", 5, "要插入的记录数量")
	flag.Parse()

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	// 打开存储后端
	ctx, cancel := context.WithTimeout(context.Background(), cfg.OperationTimeout()*2)
	defer cancel()

	blobs, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		slog.Error("无法打开存储后端", "error", err)
		return
	}
	defer blobs.Close()

	repo := repository.NewRepository(cfg, blobs, logger)

	// 清空数据必须在创建 service 之前完成，否则 service 启动时会重新写入排班表
	if op == 6 {
		if err := repo.Clear(); err != nil {
			slog.Error("清空数据失败", slog.String("error", err.Error()))
			return
		}
		slog.Info("已清空所有数据", "driver", blobs.Driver())
		return
	}

	// 创建 service
	svc, err := service.New(cfg, repo, logger)
	if err != nil {
		slog.Error("无法加载排班数据", "error", err)
		return
	}
	defer svc.Close()

	if op >= 1 && op <= 4 && n <= 0 {
		slog.Error("请输入合法的记录数量")
		return
	}

	// 执行操作
	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		slog.Info("插入楼栋成功", slog.Int("count", seed.SeedRandomBlocks(svc, n)))
	case 2:
		cnt, err := seed.SeedRandomRooms(svc, n)
		if err != nil {
			slog.Error("无法插入房间", slog.String("error", err.Error()))
			return
		}
		slog.Info("插入房间成功", slog.Int("count", cnt))
	case 3:
		slog.Info("插入班次成功", slog.Int("count", seed.SeedRandomShifts(svc, n)))
	case 4:
		slog.Info("插入医生成功", slog.Int("count", seed.SeedRandomDoctors(svc, n, cfg.Email.DoctorDomain)))
	case 5:
		if err := seed.SeedSampleData(svc); err != nil {
			slog.Error("插入示例数据失败", slog.String("error", err.Error()))
		}
	default:
		slog.Error("指定的操作非法")
	}

	if pending := svc.Pending(); len(pending) > 0 {
		slog.Error("部分数据未能保存", "keys", pending)
	}
}
