package journal

import (
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"
	"sync"
)

// rw-r--r-- (擁有者讀寫，其他人唯讀)
const fileModeDefault fs.FileMode = 0644

// Journal 是 JSON-lines 格式的附加日誌
// memory 儲存層把每筆提交的交易寫進來，重啟時重播還原帳本狀態
type Journal struct {
	file *os.File
	mu   sync.Mutex
}

// Open 開啟或建立日誌檔案
// O_APPEND 每次寫入時自動跳到檔案末尾
// O_CREATE 檔案不存在則建立
func Open(path string) (*Journal, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_RDWR, fileModeDefault)
	if err != nil {
		return nil, err
	}
	return &Journal{file: file}, nil
}

// Append 寫入一筆資料並強制刷入硬碟
// 刷盤成功前不得視為已提交
func (j *Journal) Append(v any) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if err := json.NewEncoder(j.file).Encode(v); err != nil {
		return err
	}
	return j.file.Sync()
}

// ReadAll 從頭讀取所有資料，逐筆交給 callback
// 逐筆串流解碼，避免一次把整個檔案載入記憶體
func (j *Journal) ReadAll(callback func(raw []byte) error) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if _, err := j.file.Seek(0, io.SeekStart); err != nil {
		return err
	}

	decoder := json.NewDecoder(j.file)
	for {
		var raw json.RawMessage
		if err := decoder.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		if err := callback(raw); err != nil {
			return err
		}
	}
	return nil
}

// Close 關閉檔案
func (j *Journal) Close() error {
	return j.file.Close()
}
