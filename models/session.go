package models

// GuestIdentity 匿名状态下持久化数据使用的哨兵身份
const GuestIdentity = "guest"

// Session 已认证会话
// 匿名状态下不存在 Session，持久化退回 guest 哨兵身份
type Session struct {
	UserID      string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"name"`
}

// StorageIdentity 返回用于派生持久化 key 的身份
func StorageIdentity(s *Session) string {
	if s == nil || s.UserID == "" {
		return GuestIdentity
	}
	return s.UserID
}
