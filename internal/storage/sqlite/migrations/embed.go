package migrations

import "embed"

// FS はスコア保存用のSQLiteマイグレーションを埋め込む
//
//go:embed *.sql
var FS embed.FS
