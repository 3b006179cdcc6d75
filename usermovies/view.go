package usermovies

import (
	"strconv"

	"soulfilmes/user"
)

const (
	Title           = "Filmes do Usuário"
	EmptyMessage    = "Não há filmes associados a este usuário."
	SelectPrompt    = "Selecione um filme..."
	NoTitle         = "Título não disponível"
	NoGenre         = "Gênero não disponível"
	NoYear          = "Ano não disponível"
	MissingMovieRow = "Dados do filme não disponíveis"
)

// View is a render-ready snapshot of the modal.
type View struct {
	State        State      `json:"state"`
	Title        string     `json:"title"`
	UserID       string     `json:"userId"`
	User         *user.User `json:"user,omitempty"`
	Rows         []Row      `json:"rows"`
	EmptyMessage string     `json:"emptyMessage,omitempty"`
	Prompt       string     `json:"prompt"`
	Options      []Option   `json:"options"`
	Selection    string     `json:"selection"`
	CanAdd       bool       `json:"canAdd"`
	Adding       bool       `json:"adding"`
	Degraded     []Resource `json:"degraded,omitempty"`
}

// Row is one associated movie. Missing rows stand for entries without data.
type Row struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Genre    string `json:"genre"`
	Year     string `json:"year"`
	Missing  bool   `json:"missing,omitempty"`
	Removing bool   `json:"removing,omitempty"`
}

type Option struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected,omitempty"`
}

// View builds the presentation of the current state.
func (m *Modal) View() View {
	m.mu.Lock()
	defer m.mu.Unlock()

	v := View{
		State:     m.stateLocked(),
		Title:     Title,
		UserID:    m.userID,
		Prompt:    SelectPrompt,
		Selection: m.selection,
		Adding:    m.adding,
		Rows:      make([]Row, 0, len(m.movies)),
		Options:   make([]Option, 0, len(m.catalog)),
	}
	if m.user != nil {
		u := *m.user
		v.User = &u
	}

	for _, mv := range m.movies {
		if mv.IsZero() {
			v.Rows = append(v.Rows, Row{Title: MissingMovieRow, Missing: true})
			continue
		}
		row := Row{
			ID:       mv.Key(),
			Title:    orDefault(mv.Title, NoTitle),
			Genre:    orDefault(mv.Genre, NoGenre),
			Year:     NoYear,
			Removing: m.removing[mv.Key()],
		}
		if mv.ReleaseYear != 0 {
			row.Year = strconv.Itoa(mv.ReleaseYear)
		}
		v.Rows = append(v.Rows, row)
	}
	if len(v.Rows) == 0 {
		v.EmptyMessage = EmptyMessage
	}

	for _, mv := range m.catalog {
		v.Options = append(v.Options, Option{
			Value:    mv.Key(),
			Label:    mv.Title,
			Selected: mv.Key() == m.selection,
		})
	}

	v.CanAdd = m.selection != "" && !m.adding && m.catalog.Contains(m.selection)

	for _, r := range resources {
		if m.status[r] == LoadFailed {
			v.Degraded = append(v.Degraded, r)
		}
	}
	return v
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
