package domain

type User struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	Name           string `json:"name,omitempty"`
	FollowersCount int    `json:"followers_count"`
	IsFollowing    bool   `json:"is_following"`
}

func (u *User) FollowState() FollowState {
	return FollowState{Following: u.IsFollowing}
}

func (u *User) SetFollowState(s FollowState) {
	u.IsFollowing = s.Following
}
