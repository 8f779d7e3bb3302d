package wizard

// StepID идентификатор шага мастера
type StepID string

const (
	StepZip                       StepID = "zip"
	StepServiceType               StepID = "service_type"
	StepResidentialDetails        StepID = "residential_details"
	StepCommercialDetails         StepID = "commercial_details"
	StepPropertyManagementDetails StepID = "property_management_details"
	StepExtras                    StepID = "extras"
	StepFrequency                 StepID = "frequency"
	StepContactQuote              StepID = "contact_quote"
	StepSchedule                  StepID = "schedule"
	StepAddress                   StepID = "address"
	StepReview                    StepID = "review"
	StepSuccess                   StepID = "success"

	// Ветка повторного клиента
	StepReturningLookup  StepID = "returning_lookup"
	StepPropertySelect   StepID = "property_select"
	StepQuickReconfigure StepID = "quick_reconfigure"
)

// Mode режим запуска мастера
type Mode string

const (
	ModeNew       Mode = "new"
	ModeReturning Mode = "returning"
)

// IsValid проверяет режим запуска
func (m Mode) IsValid() bool {
	return m == ModeNew || m == ModeReturning
}

// Effect побочное действие при уходе с шага вперед
// Лид сохраняется при уходе с contact_quote, schedule и address, а не при приходе
// на следующий шаг: к этому моменту поля шага уже проверены. Итоговые данные лида те же
type Effect int

const (
	EffectNone Effect = iota
	// EffectSaveLead создает или обновляет черновик лида с расчетом цены
	EffectSaveLead
	// EffectReserveSlot проверяет, что время еще свободно, и обновляет лид
	EffectReserveSlot
	// EffectFinalize подтверждает бронирование, ошибка блокирует переход
	EffectFinalize
	// EffectLookupCustomer ищет прошлые заказы по email
	EffectLookupCustomer
	// EffectPrefillProperty заполняет форму данными выбранного заказа
	EffectPrefillProperty
)

// Step узел графа шагов
type Step struct {
	ID StepID
	// Fields поля формы, проверяемые при уходе с шага
	Fields []string
	// Next следующий шаг, false у терминального шага
	Next func(d *FormData) (StepID, bool)
	// Guard условие показа шага, при false движок переходит на Fallback
	Guard    func(d *FormData) bool
	Fallback StepID
	OnLeave  Effect
}

func to(id StepID) func(*FormData) (StepID, bool) {
	return func(*FormData) (StepID, bool) { return id, true }
}

func terminal(*FormData) (StepID, bool) {
	return "", false
}
