package domain

// Account is the authentication bootstrap record returned on signin.
// LoginCount feeds the donation prompt policy.
type Account struct {
	UID           string `json:"uid"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	LoginCount    int    `json:"login_count"`
	Onboarded     bool   `json:"onboarded"`
	Theme         string `json:"theme"`
	ResponseStyle string `json:"responseStyle"`
	Avatar        string `json:"avatar"`
}

// UserProfile is the read-only snapshot forwarded with every outbound
// message. It is fetched once per conversation and never mutated by
// the chat components; only the settings flow writes it back.
type UserProfile struct {
	Name              string   `json:"name"`
	AgeRange          string   `json:"age_range"`
	Sex               string   `json:"sex"`
	LifeStage         string   `json:"life_stage"`
	SpiritualMaturity float64  `json:"spiritual_maturity"`
	SpiritualGoals    []string `json:"spiritual_goals"`
	Avatar            string   `json:"avatar"`
	Theme             string   `json:"theme"`
	ResponseStyle     string   `json:"responseStyle"`
}

// Spirituality stages derived from the maturity score.
const (
	StageExploring = "Exploring"
	StageGrowing   = "Growing"
	StageMature    = "Mature"
)

// Stage buckets the maturity score: below 1.8 is Exploring, above 2.5
// is Mature, everything between is Growing.
func (p UserProfile) Stage() string {
	switch {
	case p.SpiritualMaturity < 1.8:
		return StageExploring
	case p.SpiritualMaturity > 2.5:
		return StageMature
	default:
		return StageGrowing
	}
}
