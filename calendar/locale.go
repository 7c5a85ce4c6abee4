package calendar

import "time"

// Locale supplies pre-resolved display names for the month grid. The
// calendar has no ambient language state; callers pass the locale in.
type Locale struct {
	// Months is indexed by time.Month - 1.
	Months [12]string
	// Weekdays is indexed by time.Weekday (Sunday = 0).
	Weekdays [7]string
}

// English is the default display locale.
func English() Locale {
	return Locale{
		Months: [12]string{
			"January", "February", "March", "April", "May", "June",
			"July", "August", "September", "October", "November", "December",
		},
		Weekdays: [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"},
	}
}

// Arabic matches the display names the web client ships for Arabic users.
func Arabic() Locale {
	return Locale{
		Months: [12]string{
			"يناير", "فبراير", "مارس", "أبريل", "مايو", "يونيو",
			"يوليو", "أغسطس", "سبتمبر", "أكتوبر", "نوفمبر", "ديسمبر",
		},
		Weekdays: [7]string{"أحد", "إثنين", "ثلاثاء", "أربعاء", "خميس", "جمعة", "سبت"},
	}
}

// MonthName returns the display name for m.
func (l Locale) MonthName(m time.Month) string {
	return l.Months[int(m)-1]
}

// WeekdayName returns the display name for d.
func (l Locale) WeekdayName(d time.Weekday) string {
	return l.Weekdays[int(d)]
}
