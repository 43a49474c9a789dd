package signer_test

import (
	"fmt"

	"github.com/kazakovdmitriy/go-dynrules-signer/internal/model"
	"github.com/kazakovdmitriy/go-dynrules-signer/internal/signer"
)

// ExampleSigner_Sign показывает подпись запроса с заранее известным временем.
func ExampleSigner_Sign() {
	rules := &model.RuleSet{
		StaticParam:      "P",
		ChecksumIndexes:  []int{0, 1},
		ChecksumConstant: 5,
		Start:            "S",
		End:              "E",
	}

	res, err := signer.NewSigner().Sign("https://example.com/api2/v2/users/u123?x=1", "999", 1700000000000, rules)
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println(res.Sign)
	fmt.Println(res.Time)

	// Output:
	// S:cf87010bf2e893129a3c25635b80481bba54211b:ce:E
	// 1700000000000
}
