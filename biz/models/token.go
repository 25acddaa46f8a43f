package models

// Token 用户在平台上创建的API令牌
// 列表接口返回的字段多于这里声明的，未用到的忽略
type Token struct {
	ID           int    `json:"id"`
	Key          string `json:"key"`
	Name         string `json:"name"`
	Status       int    `json:"status"`
	RemainQuota  int    `json:"remain_quota"`
	CreatedTime  int64  `json:"created_time"`
	AccessedTime int64  `json:"accessed_time"`
}

// UserSelf 当前用户信息，GET /api/user/self
// 本客户端只关心额度
type UserSelf struct {
	ID          int    `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Quota       int    `json:"quota"`
	UsedQuota   int    `json:"used_quota"`
}
