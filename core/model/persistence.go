package model

import (
	"encoding/gob"
	"io"
	"os"

	"github.com/YuminosukeSato/scigo-fl/pkg/errors"
)

// SaveModel は値を gob 形式でファイルに保存する
//
// 使用例:
//
//	weights := params.ToWeights("LogisticRegression")
//	err := model.SaveModel(weights, "round-3.gob")
func SaveModel(v interface{}, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "failed to create file")
	}
	defer file.Close()

	if err := SaveModelToWriter(v, file); err != nil {
		return err
	}
	return errors.Wrap(file.Close(), "failed to close file")
}

// LoadModel は gob 形式のファイルから値を読み込む。v はポインタであること
func LoadModel(v interface{}, filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return errors.Wrap(err, "failed to open file")
	}
	defer file.Close()

	return LoadModelFromReader(v, file)
}

// SaveModelToWriter は値を io.Writer に gob 形式で書き込む
func SaveModelToWriter(v interface{}, w io.Writer) error {
	if err := gob.NewEncoder(w).Encode(v); err != nil {
		return errors.Wrap(err, "failed to encode model")
	}
	return nil
}

// LoadModelFromReader は io.Reader から gob 形式の値を読み込む
func LoadModelFromReader(v interface{}, r io.Reader) error {
	if err := gob.NewDecoder(r).Decode(v); err != nil {
		return errors.Wrap(err, "failed to decode model")
	}
	return nil
}
