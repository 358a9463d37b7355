package model

// ログイン中ユーザーのプロフィール（外部APIの user）
type User struct {
	ID     string `json:"_id,omitempty"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

// tokenとプロフィールが両方そろってログイン扱い
type Session struct {
	Token string
	User  User
}
