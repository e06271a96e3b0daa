package domain

// UserPreferences — профиль предпочтений пользователя. Lifestyle-поля
// хранятся ссылками на справочники, здесь — их текстовые описания.
type UserPreferences struct {
	UserID      string
	MinBudget   *float64
	MaxBudget   *float64
	WorkZipCode *string
	// WorkPoint — рабочая локация, уже разрезолвленная в координаты
	WorkPoint *Point

	RoommateStatus     *string
	SleepTime          *string
	WakeTime           *string
	Cleanliness        *string
	NoiseTolerance     *string
	GuestFrequency     *string
	SmokingPreference  *string
	DrinkingPreference *string
	PetPreference      *string
}

// Описания статусов соседства в справочнике roommate_status.
const (
	RoommateStatusOpen      = "Open to roommates"
	RoommateStatusAlone     = "Prefers to live alone"
	RoommateStatusUndecided = "Undecided"
)

// AllowedRoomTypes возвращает ограничение по типу размещения для рекомендаций,
// выведенное из статуса соседства. Пустой срез — без ограничения.
func (p UserPreferences) AllowedRoomTypes() []RoomType {
	if p.RoommateStatus == nil {
		return nil
	}
	switch *p.RoommateStatus {
	case RoommateStatusOpen:
		return []RoomType{RoomTypePrivate, RoomTypeShared}
	case RoommateStatusAlone:
		return []RoomType{RoomTypeEntire}
	default:
		return nil
	}
}

// HasBudgetBand сообщает, задана ли бюджетная вилка целиком.
func (p UserPreferences) HasBudgetBand() bool {
	return p.MinBudget != nil && p.MaxBudget != nil
}

// IncompleteFields возвращает список незаполненных обязательных полей профиля.
func (p UserPreferences) IncompleteFields() []string {
	var missing []string
	if p.MinBudget == nil {
		missing = append(missing, "min_budget")
	}
	if p.MaxBudget == nil {
		missing = append(missing, "max_budget")
	}
	if p.WorkZipCode == nil || *p.WorkZipCode == "" {
		missing = append(missing, "work_zip_code")
	}
	if p.WorkPoint == nil {
		missing = append(missing, "work_location")
	}
	if p.RoommateStatus == nil {
		missing = append(missing, "roommate_status")
	}
	if p.SleepTime == nil {
		missing = append(missing, "sleep_time")
	}
	if p.WakeTime == nil {
		missing = append(missing, "wake_time")
	}
	if p.Cleanliness == nil {
		missing = append(missing, "cleanliness")
	}
	if p.NoiseTolerance == nil {
		missing = append(missing, "noise_tolerance")
	}
	if p.GuestFrequency == nil {
		missing = append(missing, "guest_frequency")
	}
	if p.SmokingPreference == nil {
		missing = append(missing, "smoking_preference")
	}
	if p.DrinkingPreference == nil {
		missing = append(missing, "drinking_preference")
	}
	if p.PetPreference == nil {
		missing = append(missing, "pet_preference")
	}
	return missing
}

// PreferencesUpdate — частичное обновление профиля предпочтений.
// Описания lifestyle-полей резолвятся в id справочников на стороне репозитория.
type PreferencesUpdate struct {
	MinBudget     *float64
	MaxBudget     *float64
	WorkZipCode   *string
	WorkLatitude  *float64
	WorkLongitude *float64

	RoommateStatus     *string
	SleepTime          *string
	WakeTime           *string
	Cleanliness        *string
	NoiseTolerance     *string
	GuestFrequency     *string
	SmokingPreference  *string
	DrinkingPreference *string
	PetPreference      *string
}

// User — минимальная карточка пользователя. Аутентификация внешняя,
// сервис доверяет уже разрезолвленному идентификатору.
type User struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
}

// Roommate — участник, откликнувшийся на соседство по объявлению.
type Roommate struct {
	UserID    string
	FirstName string
	LastName  string
	Email     string
}
