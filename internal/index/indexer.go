package index

import (
	"fmt"
	"os"
	"strings"

	"github.com/mpetrov/wa-chat-search/internal/parse"
	"github.com/mpetrov/wa-chat-search/internal/scan"
)

type Stats struct {
	Scanned int
	Updated int
	Skipped int
	Pruned  int
	Errors  int
}

func (s Stats) String() string {
	return fmt.Sprintf("scanned=%d updated=%d skipped=%d pruned=%d errors=%d",
		s.Scanned, s.Updated, s.Skipped, s.Pruned, s.Errors)
}

// IndexAll scans the export root and (re)indexes every transcript that
// changed since the last run. A transcript the parser rejects is reported as
// a warning and skipped; the rest of the run continues.
func IndexAll(db *DB, parser *parse.Parser, exportRoot string) (Stats, error) {
	var stats Stats

	files, err := scan.ScanRoot(exportRoot)
	if err != nil {
		return stats, fmt.Errorf("scan: %w", err)
	}
	stats.Scanned = len(files)

	// track which files we see, for pruning
	seenKeys := make(map[string]struct{})

	for _, fi := range files {
		result, err := parser.ParseChat(fi.Path, exportRoot)
		if err != nil {
			stats.Errors++
			fmt.Fprintf(os.Stderr, "  WARN: parse %s: %v\n", fi.Path, err)
			continue
		}
		if len(result.Messages) == 0 {
			continue
		}

		seenKeys[result.Meta.ChatKey] = struct{}{}

		needs, err := needsUpdate(db, result.Meta.ChatKey, fi.Mtime, fi.Size)
		if err != nil {
			stats.Errors++
			continue
		}
		if !needs {
			stats.Skipped++
			continue
		}

		if err := indexChat(db, result); err != nil {
			stats.Errors++
			fmt.Fprintf(os.Stderr, "  WARN: index %s: %v\n", fi.Path, err)
			continue
		}
		stats.Updated++
	}

	// prune chats whose files no longer exist
	pruned, err := pruneChats(db, seenKeys)
	if err != nil {
		return stats, fmt.Errorf("prune: %w", err)
	}
	stats.Pruned = pruned

	return stats, nil
}

func needsUpdate(db *DB, chatKey string, mtime, size int64) (bool, error) {
	info, err := db.GetChatInfo(chatKey)
	if err != nil {
		return false, err
	}
	if info == nil {
		return true, nil // new chat
	}
	return info.Mtime != mtime || info.Size != size, nil
}

const tsLayout = "2006-01-02T15:04:05-07:00"

func indexChat(db *DB, result *parse.ParseResult) error {
	// delete old data first
	if err := db.DeleteChat(result.Meta.ChatKey); err != nil {
		return err
	}

	tx, err := db.Raw().Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// insert chat
	_, err = tx.Exec(
		`INSERT INTO chats (chat_key, file_path, title, started_at, updated_at, message_count, mtime, size)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		result.Meta.ChatKey,
		result.Meta.FilePath,
		result.Meta.Title,
		result.Meta.StartedAt.Format(tsLayout),
		result.Meta.UpdatedAt.Format(tsLayout),
		len(result.Messages),
		result.Meta.Mtime.Unix(),
		result.Meta.Size,
	)
	if err != nil {
		return err
	}

	// insert messages
	stmt, err := tx.Prepare(
		`INSERT INTO messages (chat_key, msg_id, ts, sender, msg_type, content, line_number, sentiment)
		 VALUES (?, ?, ?, ?, ?, ?, ?, NULL)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, m := range result.Messages {
		// keep the FTS payload bounded for pathological pasted blobs
		content := m.Content
		if len(content) > 64*1024 {
			content = content[:64*1024]
			if i := strings.LastIndexByte(content, '\n'); i > 0 {
				content = content[:i]
			}
		}
		_, err := stmt.Exec(
			result.Meta.ChatKey,
			m.ID,
			m.Timestamp.Format(tsLayout),
			m.Sender,
			string(m.Type),
			content,
			m.LineNumber,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func pruneChats(db *DB, seenKeys map[string]struct{}) (int, error) {
	allKeys, err := db.AllChatKeys()
	if err != nil {
		return 0, err
	}

	pruned := 0
	for key := range allKeys {
		if _, ok := seenKeys[key]; !ok {
			if err := db.DeleteChat(key); err != nil {
				return pruned, err
			}
			pruned++
		}
	}
	return pruned, nil
}
