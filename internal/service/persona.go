package service

// PersonaType 用户作息画像类型
type PersonaType string

const (
	PersonaEarlyBird    PersonaType = "early-bird"
	PersonaNightOwl     PersonaType = "night-owl"
	PersonaFlexible     PersonaType = "flexible"
	PersonaInconsistent PersonaType = "inconsistent"
)

// Persona 作息画像分类结果
type Persona struct {
	Type            PersonaType `json:"type"`
	Confidence      float64     `json:"confidence"`
	Description     string      `json:"description"`
	Recommendations []string    `json:"recommendations"`
}

const (
	morningStartHour = 6
	morningEndHour   = 10
	eveningStartHour = 18
	eveningEndHour   = 22

	personaMargin = 0.5 // 早晚能量差超过该值才给出倾向性结论
)

var personaDescriptions = map[PersonaType]string{
	PersonaEarlyBird:    "清晨型：上午能量明显高于晚间，适合把难点放在一天开头",
	PersonaNightOwl:     "夜晚型：晚间能量明显高于上午，深夜往往是你的高效时段",
	PersonaFlexible:     "弹性型：早晚能量接近，可以灵活安排学习时段",
	PersonaInconsistent: "数据不足：暂时无法判断你的作息倾向",
}

var personaRecommendations = map[PersonaType][]string{
	PersonaEarlyBird: {
		"把攻坚类任务安排在上午 6-10 点",
		"晚间以复习、阅读等轻任务为主",
	},
	PersonaNightOwl: {
		"把攻坚类任务安排在晚间 18-22 点",
		"上午安排热身类、整理类任务",
	},
	PersonaFlexible: {
		"按当天状态灵活选择学习时段",
		"持续记录能量，观察是否出现稳定高峰",
	},
	PersonaInconsistent: {
		"坚持每天记录 2-3 次能量等级",
		"累计一周以上数据后再看画像结论",
	},
}

// ClassifyPersona 根据日内模式比较早晚能量得出作息画像。
// 无日内模式（样本不足）时返回 inconsistent，置信度固定 0.1。
// 早晚均值除以各自命中的槽位数（而非固定窗口宽度），小时用数值比较。
func ClassifyPersona(patterns []Pattern) Persona {
	daily, ok := DailyPattern(patterns)
	if !ok || len(daily.Slots) == 0 {
		return newPersona(PersonaInconsistent, 0.1)
	}

	morningEnergy := bandAverage(daily.Slots, morningStartHour, morningEndHour)
	eveningEnergy := bandAverage(daily.Slots, eveningStartHour, eveningEndHour)

	switch {
	case morningEnergy-eveningEnergy > personaMargin:
		return newPersona(PersonaEarlyBird, 0.8)
	case eveningEnergy-morningEnergy > personaMargin:
		return newPersona(PersonaNightOwl, 0.8)
	default:
		return newPersona(PersonaFlexible, 0.7)
	}
}

// bandAverage 计算落在 [startHour, endHour] 小时段内槽位的平均能量；
// 无命中槽位时返回 0。
func bandAverage(slots []PatternSlot, startHour, endHour int) float64 {
	sum := 0.0
	matched := 0
	for _, slot := range slots {
		if slot.Key >= startHour && slot.Key <= endHour {
			sum += slot.AverageEnergy
			matched++
		}
	}
	if matched == 0 {
		return 0
	}
	return sum / float64(matched)
}

func newPersona(typ PersonaType, confidence float64) Persona {
	return Persona{
		Type:            typ,
		Confidence:      confidence,
		Description:     personaDescriptions[typ],
		Recommendations: append([]string(nil), personaRecommendations[typ]...),
	}
}
