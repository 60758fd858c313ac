package seed

import (
	"errors"
	"log/slog"
	"math/rand"

	"github.com/sysu-ecnc-dev/room-schedule/backend/internal/service"
	"github.com/sysu-ecnc-dev/room-schedule/backend/internal/utils"
)

type sampleBlock struct {
	Name  string
	Rooms []string
}

// 示例数据，与前端首次打开页面时的默认排班表一致
var (
	SampleBlocks = []sampleBlock{
		{Name: "Old Building", Rooms: []string{"Room 1"}},
		{Name: "New Building", Rooms: []string{"Room 1", "Room 2"}},
	}
	SampleShifts = [][2]string{
		{"09:00", "13:00"},
		{"14:00", "15:00"},
		{"17:00", "18:00"},
	}
)

// SeedSampleData 插入示例楼栋、房间和班次，医生使用默认名单
func SeedSampleData(svc *service.Service) error {
	for _, b := range SampleBlocks {
		block, err := svc.AddBlock(b.Name)
		if err != nil {
			return err
		}
		for _, name := range b.Rooms {
			if _, err := svc.AddRoom(name, block.ID); err != nil {
				return err
			}
		}
	}

	for _, s := range SampleShifts {
		if _, err := svc.AddShift(s[0], s[1]); err != nil {
			return err
		}
	}

	slog.Info("插入示例数据成功", "blocks", len(SampleBlocks), "shifts", len(SampleShifts))
	return nil
}

func SeedRandomBlocks(svc *service.Service, n int) int {
	cnt := 0
	for i := 0; i < n; i++ {
		if _, err := svc.AddBlock(utils.GenerateRandomBlockName()); err != nil {
			slog.Error("无法插入楼栋", slog.String("error", err.Error()))
			continue
		}
		cnt++
	}
	return cnt
}

// SeedRandomRooms 把随机房间分配到已有的楼栋中
func SeedRandomRooms(svc *service.Service, n int) (int, error) {
	blocks := svc.ListBlocks()
	if len(blocks) == 0 {
		return 0, errors.New("没有可用的楼栋，请先插入楼栋")
	}

	cnt := 0
	for i := 0; i < n; i++ {
		block := blocks[rand.Intn(len(blocks))]
		if _, err := svc.AddRoom(utils.GenerateRandomRoomName(), block.ID); err != nil {
			slog.Error("无法插入房间", slog.String("error", err.Error()))
			continue
		}
		cnt++
	}
	return cnt, nil
}

func SeedRandomShifts(svc *service.Service, n int) int {
	cnt := 0
	for i := 0; i < n; i++ {
		start, end := utils.GenerateRandomShiftTimes()
		if _, err := svc.AddShift(start, end); err != nil {
			slog.Error("无法插入班次", slog.String("error", err.Error()))
			continue
		}
		cnt++
	}
	return cnt
}

func SeedRandomDoctors(svc *service.Service, n int, emailDomain string) int {
	cnt := 0
	for i := 0; i < n; i++ {
		name, email := utils.GenerateRandomDoctor(emailDomain)
		if _, err := svc.AddDoctor(name, email); err != nil {
			slog.Error("无法插入医生", slog.String("error", err.Error()))
			continue
		}
		cnt++
	}
	return cnt
}
