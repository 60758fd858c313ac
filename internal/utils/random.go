package utils

import (
	"fmt"
	"math/rand"

	"github.com/mozillazg/go-pinyin"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "勇", "霞", "飞", "玲",
	"超", "华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌",
}

func GenerateRandomChineseName() string {
	surname := commonSurnames[rand.Intn(len(commonSurnames))]
	nameLength := rand.Intn(2) + 1
	name := ""

	for i := 0; i < nameLength; i++ {
		name += commonNameCharacters[rand.Intn(len(commonNameCharacters))]
	}
	return surname + name
}

var digits = "0123456789"

// GenerateMailboxFromChineseName 用姓名的拼音生成邮箱前缀
func GenerateMailboxFromChineseName(chineseName string) string {
	mailbox := ""
	for _, p := range pinyin.LazyConvert(chineseName, nil) {
		mailbox += p
	}

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		mailbox += string(digits[rand.Intn(len(digits))])
	}

	return mailbox
}

// GenerateRandomDoctor 返回医生姓名和邮箱，emailDomain 为空时不生成邮箱
func GenerateRandomDoctor(emailDomain string) (string, string) {
	fullName := GenerateRandomChineseName()
	email := ""
	if emailDomain != "" {
		email = GenerateMailboxFromChineseName(fullName) + "@" + emailDomain
	}
	return "Dr. " + fullName, email
}

var letters = []rune("ABCDEFGHIJKLMNOPQRSTUVWXYZ")

func GenerateRandomID(letterLength int, digitLength int) string {
	random_id := make([]rune, letterLength+digitLength)
	for i := range random_id {
		if i < letterLength {
			random_id[i] = letters[rand.Intn(len(letters))]
		} else {
			random_id[i] = rune(digits[rand.Intn(len(digits))])
		}
	}
	return string(random_id)
}

func GenerateRandomBlockName() string {
	return "Block " + GenerateRandomID(1, 2)
}

func GenerateRandomRoomName() string {
	return "Room " + GenerateRandomID(0, 3)
}

// GenerateRandomShiftTimes 在 [07:00, 21:00) 内随机生成一个整点开始、时长 1~4 小时的班次
func GenerateRandomShiftTimes() (string, string) {
	startHour := rand.Intn(14) + 7
	duration := rand.Intn(4) + 1
	endHour := min(startHour+duration, 23)
	minute := []int{0, 15, 30, 45}[rand.Intn(4)]

	return fmt.Sprintf("%02d:%02d", startHour, minute), fmt.Sprintf("%02d:%02d", endHour, minute)
}
