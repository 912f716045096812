// Package movelog は1手ごとの記録をParquetファイルに書き出す
package movelog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"
)

// Row は1手分の記録
//
// Cells は手を指してタイルが出現した後の盤面で、北側の行から順に値を並べる（0=空）。
// ScoreGained はこの手のマージで加算されたスコア。
type Row struct {
	GameID      string  `parquet:"game_id,dict"`
	Move        int32   `parquet:"move"`
	Side        string  `parquet:"side,dict"`
	Changed     bool    `parquet:"changed"`
	ScoreGained int32   `parquet:"score_gained"`
	Score       int32   `parquet:"score"`
	Size        int32   `parquet:"size"`
	Cells       []int32 `parquet:"cells"`
	SpawnCol    int32   `parquet:"spawn_col"`
	SpawnRow    int32   `parquet:"spawn_row"`
	SpawnValue  int32   `parquet:"spawn_value"`
	GameOver    bool    `parquet:"game_over"`
	UnixMillis  int64   `parquet:"unix_millis"`
}

// Recorder は Row をメモリに溜め、Flush でまとめて書き出す
type Recorder struct {
	dir  string
	rows []Row
}

// NewRecorder は dir に書き出すRecorderを生成する
func NewRecorder(dir string) *Recorder {
	return &Recorder{dir: dir}
}

// Record は1手分の記録を追加する
func (r *Recorder) Record(row Row) {
	if row.UnixMillis == 0 {
		row.UnixMillis = time.Now().UnixMilli()
	}
	r.rows = append(r.rows, row)
}

// Len は未書き出しの記録数を返す
func (r *Recorder) Len() int {
	return len(r.rows)
}

// Flush は溜まった記録を <dir>/<gameID>-<n>.parquet に書き出し、書き出したパスを返す
// n は既存のファイルと重ならない1からの連番で、中断して再開したゲームは複数のファイルになる
// 記録がなければ何もしない
func (r *Recorder) Flush(gameID string) (string, error) {
	if len(r.rows) == 0 {
		return "", nil
	}
	path, err := nextPartPath(r.dir, gameID)
	if err != nil {
		return "", err
	}
	if err := WriteFile(path, r.rows); err != nil {
		return "", err
	}
	r.rows = r.rows[:0]
	return path, nil
}

func partPath(dir, gameID string, part int) string {
	return filepath.Join(dir, fmt.Sprintf("%s-%d.parquet", gameID, part))
}

func nextPartPath(dir, gameID string) (string, error) {
	for part := 1; ; part++ {
		path := partPath(dir, gameID, part)
		_, err := os.Stat(path)
		if errors.Is(err, fs.ErrNotExist) {
			return path, nil
		}
		if err != nil {
			return "", fmt.Errorf("stat %s: %w", path, err)
		}
	}
}

// ReadGame は gameID の全てのファイルを連番順に読み込み、記録を連結して返す
func ReadGame(dir, gameID string) ([]Row, error) {
	var rows []Row
	for part := 1; ; part++ {
		path := partPath(dir, gameID, part)
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			return rows, nil
		}
		partRows, err := ReadFile(path)
		if err != nil {
			return nil, err
		}
		rows = append(rows, partRows...)
	}
}

// WriteFile は rows を Parquet 形式で書き出す
func WriteFile(outPath string, rows []Row) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	// 一時ファイルに書いてからリネームする
	tmpPath := outPath + ".tmp"
	_ = os.Remove(tmpPath)

	if err := parquet.WriteFile(tmpPath, rows,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.KeyValueMetadata("schema", "tilt2048_move_v1"),
	); err != nil {
		return fmt.Errorf("write parquet: %w", err)
	}
	if err := os.Rename(tmpPath, outPath); err != nil {
		return fmt.Errorf("rename parquet: %w", err)
	}
	return nil
}

// ReadFile は WriteFile で書き出したファイルを読み込む
func ReadFile(path string) ([]Row, error) {
	rows, err := parquet.ReadFile[Row](path)
	if err != nil {
		return nil, fmt.Errorf("read parquet: %w", err)
	}
	return rows, nil
}
