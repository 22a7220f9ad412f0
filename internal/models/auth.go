package models

// Credentials — данные входа. Живут только в рамках запроса,
// нигде не сохраняются после отправки на бэкенд.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	// RememberMe передаётся бэкенду как подсказка; шлюз не меняет
	// длительность хранения токенов в зависимости от флага.
	RememberMe bool `json:"rememberMe,omitempty"`
}

// RegistrationRequest — данные регистрации нового пользователя.
// Совпадение Password/ConfirmPassword проверяется на шлюзе до
// какого-либо сетевого вызова.
type RegistrationRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	FullName        string `json:"fullName"`
}

// TokenPair — пара токенов текущей сессии.
//
// Инвариант: после любого успешного сохранения в Token Store оба поля
// заполнены вместе; частичное состояние (один токен без второго)
// наблюдаться не должно.
type TokenPair struct {
	// AccessToken — короткоживущий токен, прикладывается к каждому
	// авторизованному запросу к бэкенду. Для шлюза это непрозрачная строка.
	AccessToken string `json:"accessToken"`
	// RefreshToken — долгоживущий токен для выпуска новой пары.
	RefreshToken string `json:"refreshToken"`
}

// Empty — у пары отсутствует access-токен (сессии нет).
func (p TokenPair) Empty() bool { return p.AccessToken == "" }

// UserProfile — профиль пользователя.
//
// Два источника: живая копия с бэкенда (авторитетная) и кэшированная,
// записанная в Token Store в момент логина. Кэш — только запасной
// вариант и никогда не считается свежее живого ответа.
type UserProfile struct {
	UserID          string   `json:"userId"`
	Username        string   `json:"username"`
	Email           string   `json:"email"`
	FullName        string   `json:"fullName"`
	Roles           []string `json:"roles,omitempty"`
	IsEmailVerified bool     `json:"isEmailVerified,omitempty"`
}

// AuthResult — ответ бэкенда на register/login: пара токенов и,
// опционально, профиль пользователя.
type AuthResult struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	User         *UserProfile `json:"user,omitempty"`
}

// Pair собирает TokenPair из ответа аутентификации.
func (r AuthResult) Pair() TokenPair {
	return TokenPair{AccessToken: r.AccessToken, RefreshToken: r.RefreshToken}
}

// SessionSource — происхождение профиля в разрешённой сессии.
type SessionSource string

const (
	// SourceLive — профиль получен живым запросом к бэкенду.
	SourceLive SessionSource = "live"
	// SourceCache — профиль взят из кэша Token Store (деградированный режим).
	SourceCache SessionSource = "cache"
)

// Session — производное состояние "кто сейчас залогинен".
// Не хранится, а вычисляется по запросу (Session Resolver).
type Session struct {
	Authenticated bool          `json:"authenticated"`
	User          *UserProfile  `json:"user,omitempty"`
	Source        SessionSource `json:"source,omitempty"`
}

// Anonymous — сессия отсутствует.
func Anonymous() Session { return Session{} }
