package main

import (
	"database/sql"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/lit"
)

const (
	tblUserStats     = "CREATE TABLE IF NOT EXISTS `user_stats`( `guildID` varchar(20) NOT NULL, `userID` varchar(20) NOT NULL, `xp` int(11) NOT NULL DEFAULT 0, `level` int(11) NOT NULL DEFAULT 0, PRIMARY KEY (`guildID`, `userID`)) DEFAULT CHARSET=utf8mb4;"
	tblGuildSettings = "CREATE TABLE IF NOT EXISTS `guild_settings`( `guildID` varchar(20) NOT NULL, `levelingEnabled` tinyint(1) unsigned NOT NULL DEFAULT 0, PRIMARY KEY (`guildID`)) DEFAULT CHARSET=utf8mb4;"
	tblReminders     = "CREATE TABLE IF NOT EXISTS `reminders`( `id` int(11) NOT NULL AUTO_INCREMENT, `userID` varchar(20) NOT NULL, `channelID` varchar(20) NOT NULL, `guildID` varchar(20) NOT NULL DEFAULT '', `remindAt` datetime NOT NULL, `text` varchar(1500) NOT NULL, PRIMARY KEY (`id`), KEY `remindAt` (`remindAt`)) DEFAULT CHARSET=utf8mb4;"
)

// Leveling tuning, same as the hosted bot.
const (
	xpPerMessage     = 15
	xpCooldownWindow = 45 * time.Second
)

// Store wraps the database connection for the leveling and reminder
// features. A nil Store means persistence is not configured and both
// features are disabled.
type Store struct {
	db *sql.DB
}

// openStore connects and initializes the tables. Returns nil when the
// driver is not configured or the connection can't be opened.
func openStore(driver, dsn string) *Store {
	if driver == "" || dsn == "" {
		return nil
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		lit.Error("Error opening db connection, %s", err)
		return nil
	}

	st := &Store{db: db}
	st.execQuery(tblUserStats, tblGuildSettings, tblReminders)
	return st
}

func (st *Store) close() {
	if st == nil {
		return
	}
	_ = st.db.Close()
}

// Executes a set of simple queries
func (st *Store) execQuery(query ...string) {
	for _, q := range query {
		_, err := st.db.Exec(q)
		if err != nil {
			lit.Error("Error executing query, %s", err)
			return
		}
	}
}

// XP needed to go from the given level to the next one.
func xpForNext(level int) int {
	return 5*level*level + 50*level + 100
}

// addXP awards xp to a member and applies level-ups, carrying leftover xp
// over. Returns the resulting level and whether the member leveled up.
func (st *Store) addXP(guildID, userID string, amount int) (int, bool) {
	_, err := st.db.Exec("INSERT INTO user_stats (guildID, userID, xp) VALUES(?, ?, ?) ON DUPLICATE KEY UPDATE xp = xp + ?", guildID, userID, amount, amount)
	if err != nil {
		lit.Error("Error awarding xp, %s", err)
		return 0, false
	}

	var xp, level int
	err = st.db.QueryRow("SELECT xp, level FROM user_stats WHERE guildID=? AND userID=?", guildID, userID).Scan(&xp, &level)
	if err != nil {
		lit.Error("Error reading xp, %s", err)
		return 0, false
	}

	leveledUp := false
	for xp >= xpForNext(level) {
		xp -= xpForNext(level)
		level++
		leveledUp = true
	}

	if leveledUp {
		_, err = st.db.Exec("UPDATE user_stats SET xp=?, level=? WHERE guildID=? AND userID=?", xp, level, guildID, userID)
		if err != nil {
			lit.Error("Error storing level up, %s", err)
		}
	}

	return level, leveledUp
}

// rank returns a member's xp, level and position on the guild leaderboard.
func (st *Store) rank(guildID, userID string) (xp, level, position int, ok bool) {
	err := st.db.QueryRow("SELECT xp, level, rnk FROM (SELECT userID, xp, level, RANK() OVER (ORDER BY level DESC, xp DESC) AS rnk FROM user_stats WHERE guildID=?) t WHERE userID=?",
		guildID, userID).Scan(&xp, &level, &position)
	if err != nil {
		if err != sql.ErrNoRows {
			lit.Error("Error reading rank, %s", err)
		}
		return 0, 0, 0, false
	}
	return xp, level, position, true
}

type levelRow struct {
	userID string
	xp     int
	level  int
}

func (st *Store) leaderboard(guildID string, limit int) []levelRow {
	rows, err := st.db.Query("SELECT userID, xp, level FROM user_stats WHERE guildID=? ORDER BY level DESC, xp DESC LIMIT ?", guildID, limit)
	if err != nil {
		lit.Error("Can't query database, %s", err)
		return nil
	}
	defer rows.Close()

	var out []levelRow
	for rows.Next() {
		var r levelRow
		if err = rows.Scan(&r.userID, &r.xp, &r.level); err != nil {
			lit.Error("Can't scan leaderboard row, %s", err)
			continue
		}
		out = append(out, r)
	}
	return out
}

func (st *Store) levelingEnabled(guildID string) bool {
	var enabled bool
	err := st.db.QueryRow("SELECT levelingEnabled FROM guild_settings WHERE guildID=?", guildID).Scan(&enabled)
	if err != nil {
		if err != sql.ErrNoRows {
			lit.Error("Error reading guild settings, %s", err)
		}
		return false
	}
	return enabled
}

func (st *Store) setLevelingEnabled(guildID string, enabled bool) {
	_, err := st.db.Exec("INSERT INTO guild_settings (guildID, levelingEnabled) VALUES(?, ?) ON DUPLICATE KEY UPDATE levelingEnabled=?", guildID, enabled, enabled)
	if err != nil {
		lit.Error("Error storing guild settings, %s", err)
	}
}

// Reminder is a stored reminder waiting to be delivered.
type Reminder struct {
	ID        int64
	UserID    string
	ChannelID string
	Text      string
	RemindAt  time.Time
}

func (st *Store) addReminder(userID, channelID, guildID string, remindAt time.Time, text string) (int64, error) {
	res, err := st.db.Exec("INSERT INTO reminders (userID, channelID, guildID, remindAt, text) VALUES(?, ?, ?, ?, ?)",
		userID, channelID, guildID, remindAt, text)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (st *Store) listReminders(userID string, limit int) []Reminder {
	rows, err := st.db.Query("SELECT id, channelID, remindAt, text FROM reminders WHERE userID=? ORDER BY remindAt ASC LIMIT ?", userID, limit)
	if err != nil {
		lit.Error("Can't query database, %s", err)
		return nil
	}
	defer rows.Close()

	var out []Reminder
	for rows.Next() {
		r := Reminder{UserID: userID}
		if err = rows.Scan(&r.ID, &r.ChannelID, &r.RemindAt, &r.Text); err != nil {
			lit.Error("Can't scan reminder, %s", err)
			continue
		}
		out = append(out, r)
	}
	return out
}

// claimDueReminders atomically takes up to limit due reminders out of the
// table so concurrent workers never deliver the same one twice.
func (st *Store) claimDueReminders(limit int) []Reminder {
	tx, err := st.db.Begin()
	if err != nil {
		lit.Error("Can't begin transaction, %s", err)
		return nil
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.Query("SELECT id, userID, channelID, text FROM reminders WHERE remindAt <= NOW() ORDER BY remindAt ASC LIMIT ? FOR UPDATE SKIP LOCKED", limit)
	if err != nil {
		lit.Error("Can't query due reminders, %s", err)
		return nil
	}

	var due []Reminder
	for rows.Next() {
		var r Reminder
		if err = rows.Scan(&r.ID, &r.UserID, &r.ChannelID, &r.Text); err != nil {
			lit.Error("Can't scan reminder, %s", err)
			continue
		}
		due = append(due, r)
	}
	_ = rows.Close()

	if len(due) == 0 {
		return nil
	}

	args := make([]interface{}, len(due))
	placeholders := make([]string, len(due))
	for i, r := range due {
		args[i] = r.ID
		placeholders[i] = "?"
	}
	_, err = tx.Exec("DELETE FROM reminders WHERE id IN ("+strings.Join(placeholders, ",")+")", args...)
	if err != nil {
		lit.Error("Can't delete claimed reminders, %s", err)
		return nil
	}

	if err = tx.Commit(); err != nil {
		lit.Error("Can't commit reminder claim, %s", err)
		return nil
	}
	return due
}

// xpCooldown throttles xp awards per (guild, user) in memory.
type xpCooldown struct {
	mu   sync.Mutex
	last map[rateKey]time.Time
}

func newXpCooldown() *xpCooldown {
	return &xpCooldown{last: make(map[rateKey]time.Time)}
}

func (c *xpCooldown) allow(guildID, userID string) bool {
	key := rateKey{guildID, userID}
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if last, ok := c.last[key]; ok && now.Sub(last) < xpCooldownWindow {
		return false
	}
	c.last[key] = now
	return true
}
