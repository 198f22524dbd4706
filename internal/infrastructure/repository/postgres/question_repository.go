package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/melhamamsy/audio-podcast-qa-assistant/internal/core/domain"
)

// QuestionRepository reads the generated evaluation question set. The
// table is populated by the question generation pipeline and is treated
// as read-only here.
type QuestionRepository struct {
	db *sql.DB
}

func NewQuestionRepository(db *sql.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

func (r *QuestionRepository) ListQuestions(ctx context.Context) ([]domain.Question, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, question, episode_id, chunk_id
FROM questions
ORDER BY id
`)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	var questions []domain.Question
	for rows.Next() {
		var q domain.Question
		if err := rows.Scan(&q.ID, &q.Text, &q.Source.EpisodeID, &q.Source.ChunkID); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate questions: %w", err)
	}
	return questions, nil
}
