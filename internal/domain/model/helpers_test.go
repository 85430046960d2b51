package model

import "time"

var testTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
