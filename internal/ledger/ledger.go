package ledger

import (
	"context"
	"time"

	"github.com/ivanoskov/fintrack/internal/auth"
	"github.com/ivanoskov/fintrack/internal/model"
	"github.com/ivanoskov/fintrack/internal/repository"
)

// AuthService — коллаборатор аутентификации, нужный гроссбуху.
type AuthService interface {
	GetSession(ctx context.Context) (*auth.Session, error)
	SignIn(ctx context.Context, email, password string) (*auth.Session, error)
	SignUp(ctx context.Context, email, password string) error
	SignOut(ctx context.Context) error
	ResetPassword(ctx context.Context, email string) error
}

// PrefStore — локальное постоянное хранилище настроек (last-write-wins).
type PrefStore interface {
	Get(key string) string
	Set(key, value string) error
}

// Ledger владеет зеркалом состояния активного профиля в памяти и
// единолично согласует его с удалённым хранилищем: каждая мутация либо
// завершается на сервере и затем отражается в зеркале, либо проваливается
// и зеркало перечитывается с сервера. Слой представления не обращается
// к хранилищу напрямую.
//
// Мутации не сериализуются внутри Ledger: предполагается, что вызывающая
// сторона не держит две мутации в полёте одновременно.
type Ledger struct {
	store repository.Store
	auth  AuthService
	prefs PrefStore
	now   func() time.Time

	user            *auth.User
	profiles        []model.Profile
	profile         model.Profile
	activeProfileID string
	currentMonth    string
	categories      []model.Category
	months          map[string]*model.MonthBucket
}

func New(store repository.Store, authService AuthService, prefStore PrefStore) *Ledger {
	l := &Ledger{
		store: store,
		auth:  authService,
		prefs: prefStore,
		now:   time.Now,
	}
	l.resetState()
	return l
}

// resetState приводит зеркало к пустому состоянию. Пользователь сессии
// намеренно не трогается — им управляют Init и операции входа/выхода.
func (l *Ledger) resetState() {
	l.profiles = nil
	l.profile = model.Profile{Currency: "$"}
	l.activeProfileID = ""
	l.categories = nil
	l.months = make(map[string]*model.MonthBucket)
	l.currentMonth = CurrentMonthKey(l.now())
	l.ensureMonth(l.currentMonth)
}

// ensureMonth лениво создает корзину месяца. Повторный вызов для того же
// ключа возвращает ту же корзину.
func (l *Ledger) ensureMonth(key string) *model.MonthBucket {
	bucket, ok := l.months[key]
	if !ok {
		bucket = &model.MonthBucket{}
		l.months[key] = bucket
	}
	return bucket
}

func (l *Ledger) requireAuth() error {
	if l.user == nil {
		return ErrNotAuthenticated
	}
	return nil
}

func (l *Ledger) requireActiveProfile() error {
	if err := l.requireAuth(); err != nil {
		return err
	}
	if l.activeProfileID == "" {
		return ErrNoActiveProfile
	}
	return nil
}

func (l *Ledger) IsAuthenticated() bool {
	return l.user != nil
}

func (l *Ledger) UserEmail() string {
	if l.user == nil {
		return ""
	}
	return l.user.Email
}
