// Package validation содержит функции валидации входных данных.
package validation

// TrackingNumberLength задаёт длину номера отслеживания заказа вместе с контрольной цифрой.
const TrackingNumberLength = 12

// IsValidTrackingNumber проверяет корректность номера отслеживания по алгоритму Луна.
// Номер должен состоять только из цифр.
func IsValidTrackingNumber(number string) bool {
	if number == "" {
		return false
	}
	sum, ok := luhnSum(number, false)
	return ok && sum%10 == 0
}

// LuhnCheckDigit вычисляет контрольную цифру, которую нужно дописать к payload,
// чтобы номер прошёл проверку IsValidTrackingNumber. payload должен состоять из цифр.
func LuhnCheckDigit(payload string) byte {
	sum, _ := luhnSum(payload, true)
	return byte('0' + (10-sum%10)%10)
}

// luhnSum складывает цифры справа налево, удваивая каждую вторую.
// doubleFirst задаёт, удваивается ли самая правая цифра.
func luhnSum(digits string, doubleFirst bool) (int, bool) {
	sum := 0
	double := doubleFirst

	for i := len(digits) - 1; i >= 0; i-- {
		ch := digits[i]
		if ch < '0' || ch > '9' {
			return 0, false
		}
		digit := int(ch - '0')
		if double {
			digit *= 2
			if digit > 9 {
				digit -= 9
			}
		}
		sum += digit
		double = !double
	}

	return sum, true
}
