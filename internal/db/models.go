package db

type SessionModel struct {
	tableName struct{} `pg:"sessions"`

	AuthID    string `pg:"auth_id,pk"`
	SessionID string `pg:"session_id,type:uuid"`
}

type UserModel struct {
	tableName struct{} `pg:"users"`

	ID       int64  `pg:"id,pk"`
	Type     string `pg:"type"`
	UserName string `pg:"user_name"`
	Password string `pg:"password"`
}

type UserInfo struct {
	UserType string
	UserName string
}
