package consts

// 四个外部服务商的标识，与 daily_stats.provider 列的取值一致
const (
	ProviderGitHub   = "github"
	ProviderLeetCode = "leetcode"
	ProviderWakaTime = "wakatime"
	ProviderFitbit   = "fitbit"
)

// Providers 固定的服务商枚举，顺序即采集顺序
var Providers = []string{
	ProviderGitHub,
	ProviderLeetCode,
	ProviderWakaTime,
	ProviderFitbit,
}

// IsValidProvider 校验服务商标识是否在枚举内
func IsValidProvider(p string) bool {
	for _, v := range Providers {
		if v == p {
			return true
		}
	}
	return false
}

// 指标类型
const (
	MetricCommits       = "commits"
	MetricRepositories  = "repositories"
	MetricContributions = "contributions"

	MetricSolvedEasy       = "problems_solved_easy"
	MetricSolvedMedium     = "problems_solved_medium"
	MetricSolvedHard       = "problems_solved_hard"
	MetricSubmissionsToday = "submissions_today"
	MetricRanking          = "ranking"

	MetricCodingTime     = "coding_time"
	MetricLanguagesCount = "languages_count"
	MetricProjectsCount  = "projects_count"

	MetricSteps    = "steps"
	MetricDistance = "distance"
	MetricCalories = "calories"
)

// SnapshotMetrics 快照型指标：聚合时取区间内最新值而非求和
var SnapshotMetrics = map[string]struct{}{
	MetricRepositories:   {},
	MetricRanking:        {},
	MetricLanguagesCount: {},
	MetricProjectsCount:  {},
}

// IsSnapshotMetric 判断指标是否为快照语义
func IsSnapshotMetric(metricType string) bool {
	_, ok := SnapshotMetrics[metricType]
	return ok
}
