package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
)

func (db *PgJujurlyRepository) CreateUser(params CreateUserParams) (User, error) {
	res := db.conn.QueryRow(
		"INSERT INTO users (email, fullname, password, created_at) "+
			"VALUES ($1, $2, $3, $4) RETURNING id, email, fullname, created_at",
		params.Email,
		params.Fullname,
		params.PasswordHash,
		time.Now().UTC(),
	)

	var u User
	err := res.Scan(
		&u.Id,
		&u.Email,
		&u.Fullname,
		&u.CreatedAt,
	)

	return u, err
}

func (db *PgJujurlyRepository) GetUserByEmail(email string) (User, error) {
	row := db.conn.QueryRow(
		"SELECT id, email, fullname, password FROM users WHERE email = $1 LIMIT 1",
		email,
	)

	var user User
	err := row.Scan(
		&user.Id,
		&user.Email,
		&user.Fullname,
		&user.PasswordHash,
	)

	return user, err
}

// CreateRoom inserts the room and its candidate set as one atomic
// unit and returns the created rows.
func (db *PgJujurlyRepository) CreateRoom(params CreateRoomParams) (Room, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return Room{}, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	res := tx.QueryRow(
		"INSERT INTO rooms (name, start_time, end_time, code, user_id, created_at) "+
			"VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, name, start_time, end_time, code, user_id",
		params.Name,
		params.Start,
		params.End,
		params.Code,
		params.OwnerId,
		time.Now().UTC(),
	)

	var room Room
	err = res.Scan(
		&room.Id,
		&room.Name,
		&room.Start,
		&room.End,
		&room.Code,
		&room.OwnerId,
	)
	if err != nil {
		return Room{}, err
	}

	for _, name := range params.Candidates {
		var cand Candidate
		err = tx.QueryRow(
			"INSERT INTO candidates (name, room_id) VALUES ($1, $2) RETURNING id, name, room_id",
			name,
			room.Id,
		).Scan(&cand.Id, &cand.Name, &cand.RoomId)
		if err != nil {
			return Room{}, err
		}

		room.Candidates = append(room.Candidates, cand)
	}

	if err = tx.Commit(); err != nil {
		return Room{}, err
	}

	return room, nil
}

// DeleteRoom removes a room and its dependents in one transaction. The
// room must match id, code and owner simultaneously; otherwise
// sql.ErrNoRows is returned and nothing is deleted.
func (db *PgJujurlyRepository) DeleteRoom(roomId int, code string, ownerId int) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var id int
	err = tx.QueryRow(
		"SELECT id FROM rooms WHERE id = $1 AND code = $2 AND user_id = $3 LIMIT 1",
		roomId,
		code,
		ownerId,
	).Scan(&id)
	if err != nil {
		return err
	}

	_, err = tx.Exec("DELETE FROM votes WHERE room_id = $1", id)
	if err != nil {
		return err
	}

	_, err = tx.Exec("DELETE FROM candidates WHERE room_id = $1", id)
	if err != nil {
		return err
	}

	_, err = tx.Exec("DELETE FROM rooms WHERE id = $1", id)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (db *PgJujurlyRepository) ListRooms(ownerId int) ([]Room, error) {
	rows, err := db.conn.Query(
		"SELECT id, name, start_time, end_time, code FROM rooms WHERE user_id = $1",
		ownerId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms = make([]Room, 0)
	for rows.Next() {
		var room Room
		if err = rows.Scan(&room.Id, &room.Name, &room.Start, &room.End, &room.Code); err != nil {
			return nil, err
		}

		rooms = append(rooms, room)
	}

	return rooms, rows.Err()
}

// GetRoomById fetches a room and its candidate list in one left-joined
// query, scoped to the owner. sql.ErrNoRows when no match, whether the
// room is missing or owned by someone else.
func (db *PgJujurlyRepository) GetRoomById(roomId, ownerId int) (Room, error) {
	query := `
		SELECT r.id, r.name, r.start_time, r.end_time, r.code, r.user_id,
			c.id, c.name
		FROM rooms r
		LEFT JOIN candidates c ON c.room_id = r.id
		WHERE r.id = $1 AND r.user_id = $2`

	rows, err := db.conn.Query(query, roomId, ownerId)
	if err != nil {
		return Room{}, fmt.Errorf("fetch room with candidates: %w", err)
	}
	defer rows.Close()

	var room *Room
	for rows.Next() {
		var (
			id, owner  int
			name, code string
			start, end int64
			candId     sql.NullInt64
			candName   sql.NullString
		)

		err := rows.Scan(&id, &name, &start, &end, &code, &owner, &candId, &candName)
		if err != nil {
			return Room{}, fmt.Errorf("scan row: %w", err)
		}

		if room == nil {
			room = &Room{
				Id:         id,
				Name:       name,
				Start:      start,
				End:        end,
				Code:       code,
				OwnerId:    owner,
				Candidates: make([]Candidate, 0),
			}
		}

		if candId.Valid {
			room.Candidates = append(room.Candidates, Candidate{
				Id:     int(candId.Int64),
				Name:   candName.String,
				RoomId: id,
			})
		}
	}

	if err := rows.Err(); err != nil {
		return Room{}, fmt.Errorf("rows error: %w", err)
	}

	if room == nil {
		return Room{}, sql.ErrNoRows
	}

	return *room, nil
}

func (db *PgJujurlyRepository) GetRoomByCode(code string) (Room, error) {
	row := db.conn.QueryRow(
		"SELECT id, name, start_time, end_time, code FROM rooms WHERE code = $1 LIMIT 1",
		code,
	)

	var room Room
	err := row.Scan(
		&room.Id,
		&room.Name,
		&room.Start,
		&room.End,
		&room.Code,
	)

	return room, err
}

// UpdateRoom applies the scalar patch and candidate upserts in one
// transaction, then returns the refreshed room. Candidates are
// upserted by (id, room_id): a matching row gets a new name, anything
// else is inserted as a fresh candidate under the room.
func (db *PgJujurlyRepository) UpdateRoom(params UpdateRoomParams) (Room, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return Room{}, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var id int
	err = tx.QueryRow(
		"SELECT id FROM rooms WHERE id = $1 AND user_id = $2 LIMIT 1",
		params.RoomId,
		params.OwnerId,
	).Scan(&id)
	if err != nil {
		return Room{}, err
	}

	_, err = tx.Exec(
		"UPDATE rooms SET name = COALESCE($2::varchar, name), "+
			"start_time = COALESCE($3::bigint, start_time), "+
			"end_time = COALESCE($4::bigint, end_time) WHERE id = $1",
		params.RoomId,
		params.Name,
		params.Start,
		params.End,
	)
	if err != nil {
		return Room{}, err
	}

	for _, cand := range params.Candidates {
		var res sql.Result
		res, err = tx.Exec(
			"UPDATE candidates SET name = $1 WHERE id = $2 AND room_id = $3",
			cand.Name,
			cand.Id,
			params.RoomId,
		)
		if err != nil {
			return Room{}, err
		}

		var affected int64
		affected, err = res.RowsAffected()
		if err != nil {
			return Room{}, err
		}

		if affected == 0 {
			_, err = tx.Exec(
				"INSERT INTO candidates (name, room_id) VALUES ($1, $2)",
				cand.Name,
				params.RoomId,
			)
			if err != nil {
				return Room{}, err
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return Room{}, err
	}

	return db.GetRoomById(params.RoomId, params.OwnerId)
}

func (db *PgJujurlyRepository) RoomExists(roomId int, code string) (bool, error) {
	var exists bool
	err := db.conn.QueryRow(
		"SELECT EXISTS (SELECT 1 FROM rooms WHERE id = $1 AND code = $2)",
		roomId,
		code,
	).Scan(&exists)

	return exists, err
}

func (db *PgJujurlyRepository) CandidateExists(candidateId, roomId int) (bool, error) {
	var exists bool
	err := db.conn.QueryRow(
		"SELECT EXISTS (SELECT 1 FROM candidates WHERE id = $1 AND room_id = $2)",
		candidateId,
		roomId,
	).Scan(&exists)

	return exists, err
}

func (db *PgJujurlyRepository) HasVoted(userId, roomId int) (bool, error) {
	var exists bool
	err := db.conn.QueryRow(
		"SELECT EXISTS (SELECT 1 FROM votes WHERE user_id = $1 AND room_id = $2)",
		userId,
		roomId,
	).Scan(&exists)

	return exists, err
}

func (db *PgJujurlyRepository) CreateVote(params CreateVoteParams) error {
	_, err := db.conn.Exec(
		"INSERT INTO votes (user_id, room_id, candidate_id) VALUES ($1, $2, $3)",
		params.UserId,
		params.RoomId,
		params.CandidateId,
	)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
		return ErrDuplicateVote
	}

	return err
}

// CountVotesByCandidate returns one row per candidate of the room,
// left-joined so candidates without votes count zero.
func (db *PgJujurlyRepository) CountVotesByCandidate(roomId int) ([]CandidateVotes, error) {
	rows, err := db.conn.Query(
		"SELECT c.id, c.name, COUNT(v.id) FROM candidates c "+
			"LEFT JOIN votes v ON c.id = v.candidate_id "+
			"WHERE c.room_id = $1 GROUP BY c.id, c.name ORDER BY c.id",
		roomId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts = make([]CandidateVotes, 0)
	for rows.Next() {
		var cv CandidateVotes
		if err = rows.Scan(&cv.Id, &cv.Name, &cv.VoteCount); err != nil {
			return nil, err
		}

		counts = append(counts, cv)
	}

	return counts, rows.Err()
}

func (db *PgJujurlyRepository) GetAdminByUsername(username string) (Admin, error) {
	row := db.conn.QueryRow(
		"SELECT id, username, email, fullname, password FROM admins WHERE username = $1 LIMIT 1",
		username,
	)

	var admin Admin
	err := row.Scan(
		&admin.Id,
		&admin.Username,
		&admin.Email,
		&admin.Fullname,
		&admin.PasswordHash,
	)

	return admin, err
}

// CreateAdminSession stores the issued API token together with its
// audit log entry.
func (db *PgJujurlyRepository) CreateAdminSession(token Token, logEntry Log) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	_, err = tx.Exec(
		"INSERT INTO tokens (value, expired) VALUES ($1, $2)",
		token.Value,
		token.Expired,
	)
	if err != nil {
		return err
	}

	_, err = tx.Exec(
		"INSERT INTO logs (log_id, name, device, created_at) VALUES ($1, $2, $3, $4)",
		logEntry.LogId,
		logEntry.Name,
		logEntry.Device,
		time.Now().UTC(),
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (db *PgJujurlyRepository) GetToken(value string) (Token, error) {
	row := db.conn.QueryRow(
		"SELECT id, value, expired FROM tokens WHERE value = $1 LIMIT 1",
		value,
	)

	var token Token
	err := row.Scan(&token.Id, &token.Value, &token.Expired)

	return token, err
}

func (db *PgJujurlyRepository) GetDashboard() (Dashboard, error) {
	row := db.conn.QueryRow(
		"SELECT (SELECT COUNT(id) FROM users), (SELECT COUNT(id) FROM rooms), " +
			"(SELECT COUNT(id) FROM candidates)",
	)

	var d Dashboard
	err := row.Scan(&d.TotalUsers, &d.TotalRooms, &d.TotalCandidates)

	return d, err
}

func (db *PgJujurlyRepository) ListUsers() ([]User, error) {
	rows, err := db.conn.Query(
		"SELECT id, fullname, email, created_at FROM users ORDER BY created_at DESC",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users = make([]User, 0)
	for rows.Next() {
		var u User
		if err = rows.Scan(&u.Id, &u.Fullname, &u.Email, &u.CreatedAt); err != nil {
			return nil, err
		}

		users = append(users, u)
	}

	return users, rows.Err()
}

func (db *PgJujurlyRepository) ListAllRooms() ([]AdminRoom, error) {
	query := `
		SELECT r.id, r.name, r.start_time, r.end_time, r.code, r.created_at,
			u.fullname, c.id, c.name
		FROM rooms r
		JOIN users u ON r.user_id = u.id
		LEFT JOIN candidates c ON c.room_id = r.id
		ORDER BY r.created_at DESC, r.id, c.id`

	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms []AdminRoom
	byId := make(map[int]int)
	for rows.Next() {
		var (
			room     AdminRoom
			candId   sql.NullInt64
			candName sql.NullString
		)

		err = rows.Scan(
			&room.Id,
			&room.Name,
			&room.Start,
			&room.End,
			&room.Code,
			&room.CreatedAt,
			&room.Owner,
			&candId,
			&candName,
		)
		if err != nil {
			return nil, err
		}

		idx, ok := byId[room.Id]
		if !ok {
			room.Candidates = make([]Candidate, 0)
			rooms = append(rooms, room)
			idx = len(rooms) - 1
			byId[room.Id] = idx
		}

		if candId.Valid {
			rooms[idx].Candidates = append(rooms[idx].Candidates, Candidate{
				Id:     int(candId.Int64),
				Name:   candName.String,
				RoomId: room.Id,
			})
		}
	}

	return rooms, rows.Err()
}

func (db *PgJujurlyRepository) ListLogs() ([]Log, error) {
	rows, err := db.conn.Query(
		"SELECT id, log_id, name, device, created_at FROM logs ORDER BY created_at DESC",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs = make([]Log, 0)
	for rows.Next() {
		var l Log
		if err = rows.Scan(&l.Id, &l.LogId, &l.Name, &l.Device, &l.CreatedAt); err != nil {
			return nil, err
		}

		logs = append(logs, l)
	}

	return logs, rows.Err()
}

// DeleteUser removes a user and everything they own or cast: votes in
// their rooms, their rooms' candidates, their own votes elsewhere,
// their rooms, then the user row. All in one transaction.
func (db *PgJujurlyRepository) DeleteUser(userId int) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var id int
	err = tx.QueryRow("SELECT id FROM users WHERE id = $1 LIMIT 1", userId).Scan(&id)
	if err != nil {
		return err
	}

	_, err = tx.Exec(
		"DELETE FROM votes WHERE room_id IN (SELECT id FROM rooms WHERE user_id = $1)",
		userId,
	)
	if err != nil {
		return err
	}

	_, err = tx.Exec(
		"DELETE FROM candidates WHERE room_id IN (SELECT id FROM rooms WHERE user_id = $1)",
		userId,
	)
	if err != nil {
		return err
	}

	_, err = tx.Exec("DELETE FROM votes WHERE user_id = $1", userId)
	if err != nil {
		return err
	}

	_, err = tx.Exec("DELETE FROM rooms WHERE user_id = $1", userId)
	if err != nil {
		return err
	}

	_, err = tx.Exec("DELETE FROM users WHERE id = $1", userId)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (db *PgJujurlyRepository) AdminDeleteRoom(roomId int) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var id int
	err = tx.QueryRow("SELECT id FROM rooms WHERE id = $1 LIMIT 1", roomId).Scan(&id)
	if err != nil {
		return err
	}

	_, err = tx.Exec("DELETE FROM votes WHERE room_id = $1", id)
	if err != nil {
		return err
	}

	_, err = tx.Exec("DELETE FROM candidates WHERE room_id = $1", id)
	if err != nil {
		return err
	}

	_, err = tx.Exec("DELETE FROM rooms WHERE id = $1", id)
	if err != nil {
		return err
	}

	return tx.Commit()
}
