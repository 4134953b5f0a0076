package webutil

import (
	"log"
	"reflect"
	"strings"

	"github.com/go-playground/locales/ja" // 日本語ロケール
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	ja_translations "github.com/go-playground/validator/v10/translations/ja" // 日本語翻訳
)

// Validator はアプリケーション全体で共有されるバリデータインスタンスです。
var Validator *validator.Validate

// Trans はエラーメッセージを翻訳するためのトランスレータです。
var Trans ut.Translator

var fieldNameTranslations = map[string]string{
	"name":               "名前",
	"daily_goal_minutes": "1日の目標時間(分)",
	"book_id":            "書籍ID",
	"text":               "ハイライト本文",
	"note":               "メモ",
	"is_correct":         "回答の正誤",
}

// translateField はjsonタグ名を日本語のフィールド名にします。
func translateField(field string) string {
	if name, ok := fieldNameTranslations[field]; ok {
		return name
	}
	return field
}

func init() {
	// バリデータのインスタンスを生成
	Validator = validator.New()

	// JSONタグからフィールド名を取得するように設定
	Validator.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// --- ここからが日本語化の処理 ---

	// 日本語のロケールとトランスレータを設定
	japanese := ja.New()
	uni := ut.New(japanese, japanese)
	var found bool
	Trans, found = uni.GetTranslator("ja")
	if !found {
		log.Fatal("translator not found")
	}

	// バリデータに日本語の翻訳を登録
	if err := ja_translations.RegisterDefaultTranslations(Validator, Trans); err != nil {
		log.Fatal(err)
	}

	// 必要に応じて、個別のエラーメッセージを上書き・カスタマイズ
	// registerTranslation は、メッセージテンプレートを登録するヘルパー関数
	registerTranslation := func(tag string, msg string) {
		Validator.RegisterTranslation(tag, Trans, func(ut ut.Translator) error {
			return ut.Add(tag, msg, true)
		}, func(ut ut.Translator, fe validator.FieldError) string {
			t, _ := ut.T(tag, translateField(fe.Field()))
			return t
		})
	}

	registerTranslation("required", "{0}は必須項目です。")
	registerTranslation("uuid", "{0}はUUID形式で入力してください。")
	// min/max は文字列なら文字数、数値なら値の範囲としてメッセージを出し分ける
	registerRange := func(tag, strMsg, numMsg string) {
		Validator.RegisterTranslation(tag, Trans, func(ut ut.Translator) error {
			if err := ut.Add(tag+"-string", strMsg, true); err != nil {
				return err
			}
			return ut.Add(tag+"-number", numMsg, true)
		}, func(ut ut.Translator, fe validator.FieldError) string {
			key := tag + "-number"
			if fe.Kind() == reflect.String {
				key = tag + "-string"
			}
			t, _ := ut.T(key, translateField(fe.Field()), fe.Param())
			return t
		})
	}
	registerRange("min", "{0}は{1}文字以上で入力してください。", "{0}は{1}以上で入力してください。")
	registerRange("max", "{0}は{1}文字以下で入力してください。", "{0}は{1}以下で入力してください。")
}
