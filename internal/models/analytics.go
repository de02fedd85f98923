package models

import "time"

// DateCount is one point of a day-bucketed series
type DateCount struct {
	Date  string `bson:"_id" json:"date"`
	Count int64  `bson:"count" json:"count"`
}

// LabelCount is one bucket of a categorical distribution
type LabelCount struct {
	Label string `bson:"_id" json:"label"`
	Count int64  `bson:"count" json:"count"`
}

// CourseCounts holds the per-source course totals
type CourseCounts struct {
	Official int64 `json:"official"`
	Library  int64 `json:"library"`
	Trending int64 `json:"trending"`
}

// Total is the sum of the three sources
func (c CourseCounts) Total() int64 {
	return c.Official + c.Library + c.Trending
}

// AnalyticsOverview is the headline block of /analytics
type AnalyticsOverview struct {
	TotalUsers         int64   `json:"totalUsers"`
	NewUsers           int64   `json:"newUsers"`
	ActiveUsers        int64   `json:"activeUsers"`
	DAU                int64   `json:"dau"`
	MAU                int64   `json:"mau"`
	TotalCourses       int64   `json:"totalCourses"`
	OfficialCourses    int64   `json:"officialCourses"`
	LibraryCourses     int64   `json:"libraryCourses"`
	TrendingCourses    int64   `json:"trendingCourses"`
	TotalBlogs         int64   `json:"totalBlogs"`
	TotalFlashcardSets int64   `json:"totalFlashcardSets"`
	TotalTests         int64   `json:"totalTests"`
	TotalChats         int64   `json:"totalChats"`
	TotalContacts      int64   `json:"totalContacts"`
	TotalRevenue       float64 `json:"totalRevenue"`
}

// AnalyticsCharts holds the time series and breakdowns
type AnalyticsCharts struct {
	UserGrowth         []DateCount  `json:"userGrowth"`
	CourseSources      []LabelCount `json:"courseSources"`
	InteractionsByType []LabelCount `json:"interactionsByType"`
}

// AnalyticsTrends holds derived percentages
type AnalyticsTrends struct {
	UserGrowthRate float64 `json:"userGrowthRate"`
	EngagementRate float64 `json:"engagementRate"`
}

// AnalyticsDistributions holds categorical splits
type AnalyticsDistributions struct {
	Subscriptions    []LabelCount `json:"subscriptions"`
	CourseDifficulty []LabelCount `json:"courseDifficulty"`
}

// AnalyticsReport is the body of GET /api/analytics
type AnalyticsReport struct {
	Days          int                    `json:"days"`
	GeneratedAt   time.Time              `json:"generatedAt"`
	Overview      AnalyticsOverview      `json:"overview"`
	Charts        AnalyticsCharts        `json:"charts"`
	Trends        AnalyticsTrends        `json:"trends"`
	Distributions AnalyticsDistributions `json:"distributions"`
}

// DashboardOverview is the headline block of /dashboard/analytics
type DashboardOverview struct {
	TotalUsers       int64            `json:"totalUsers"`
	ActiveUsers      int64            `json:"activeUsers"`
	TotalCourses     int64            `json:"totalCourses"`
	ContactsByStatus map[string]int64 `json:"contactsByStatus"`
	PendingAdmins    int64            `json:"pendingAdmins"`
	VisitorsToday    int64            `json:"visitorsToday"`
	VisitorsWeek     int64            `json:"visitorsWeek"`
}

// DashboardReport is the body of GET /api/dashboard/analytics
type DashboardReport struct {
	Overview       DashboardOverview `json:"overview"`
	RecentUsers    []*User           `json:"recentUsers"`
	RecentContacts []*Contact        `json:"recentContacts"`
	VisitorTrend   []DateCount       `json:"visitorTrend"`
}
