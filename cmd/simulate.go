package cmd

import "github.com/gregLibert/thai-id-card/pkg/thaiid"

// demoPhoto stands in for the holder photo on the simulated card.
var demoPhoto = []byte{
	0xFF, 0xD8, 0xFF, 0xDB, 0x00, 0x43, 0x00, 0x03, 0x02, 0x02, 0x02, 0x02,
	0x02, 0x03, 0x02, 0x02, 0x02, 0x03, 0x03, 0x03, 0x03, 0x04, 0x06, 0x04,
	0x04, 0x04, 0x04, 0x04, 0x08, 0x06, 0x06, 0x05, 0x06, 0x09, 0x08, 0x0A,
	0x0A, 0x09, 0x08, 0x09, 0x09, 0x0A, 0x0C, 0x0F, 0x0C, 0x0A, 0x0B, 0x0E,
	0x0B, 0x09, 0x09, 0x0D, 0x11, 0x0D, 0x0E, 0x0F, 0x10, 0x10, 0x11, 0x10,
	0x0A, 0x0C, 0x12, 0x13, 0x12, 0x10, 0x13, 0x0F, 0x10, 0x10, 0x10, 0xFF,
	0xC9, 0x00, 0x0B, 0x08, 0x00, 0x01, 0x00, 0x01, 0x01, 0x01, 0x11, 0x00,
	0xFF, 0xCC, 0x00, 0x06, 0x00, 0x10, 0x10, 0x05, 0xFF, 0xDA, 0x00, 0x08,
	0x01, 0x01, 0x00, 0x00, 0x3F, 0x00, 0xD2, 0xCF, 0x20, 0xFF, 0xD9,
}

func demoRecord() *thaiid.Record {
	return &thaiid.Record{
		CID:         "1101700203451",
		NameTH:      "นาย ทดสอบ ระบบบัตร",
		NameEN:      "Mr. Thotsop Rabobbat",
		DateOfBirth: thaiid.Date{Year: 2533, Month: 5, Day: 12},
		Gender:      thaiid.GenderMale,
		CardIssuer:  "กรมการปกครอง",
		IssueDate:   thaiid.Date{Year: 2563, Month: 1, Day: 15},
		ExpireDate:  thaiid.Date{Year: 2571, Month: 5, Day: 11},
		Address:     "1 ถนนนครไชยศรี แขวงถนนนครไชยศรี เขตดุสิต กรุงเทพมหานคร",
		Photo:       demoPhoto,
	}
}
