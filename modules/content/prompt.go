package content

import (
	"fmt"
	"time"

	"inspiration-poster-server/modules/theme"
)

// BuildPrompt - text model instruction for one calendar day. The model
// produces the lunar calendar strings itself; nothing is computed locally.
func BuildPrompt(date time.Time, th theme.Theme) string {
	dateStr := fmt.Sprintf("%d年%d月%d日", date.Year(), int(date.Month()), date.Day())

	return fmt.Sprintf(`Today is %s. Generate content for a "Daily Inspiration Calendar" (灵感日历).
Theme: %s.

Please provide:
1. A short, inspiring quote or philosophical thought (in Chinese).
2. The author of the quote (or "Unknown").
3. A "lucky item" for the day.
4. A "lucky color" for the day.
5. A very short poem or haiku related to the date/season (optional).
6. Accurate Lunar Date details for this specific date in Chinese (e.g., "乙巳年 丁亥月 十月初八"). Include GanZhi (Stems and Branches) for Year and Month if possible.
7. The Solar Term (JieQi) for this period (e.g., "小雪", "大雪", "立春").
8. "Yi" (宜): 2-3 short activities suitable for today (e.g., "阅读", "大扫除").
9. "Ji" (忌): 2-3 short activities to avoid today (e.g., "熬夜", "争执").

Return pure JSON.`, dateStr, th.Label())
}
