package config

// ReplaceObjects will traverse the config object and replace all objects that
// have a '$' + key property with the value returned from replacement(obj).
//
// This is useful when implementing TransformationProviders.
func ReplaceObjects(
	config map[string]interface{},
	key string,
	replacement func(obj map[string]interface{}) (interface{}, error),
) error {
	_, err := replaceObjects(key, replacement, config)
	return err
}

func replaceObjects(
	key string,
	replacement func(obj map[string]interface{}) (interface{}, error),
	val interface{},
) (interface{}, error) {
	switch val := val.(type) {
	case []interface{}:
		for i, v := range val {
			v, err := replaceObjects(key, replacement, v)
			if err != nil {
				return nil, err
			}
			val[i] = v
		}
	case map[string]interface{}:
		if _, ok := val["$"+key]; ok && len(val) == 1 {
			return replacement(val)
		}
		for k, v := range val {
			v, err := replaceObjects(key, replacement, v)
			if err != nil {
				return nil, err
			}
			val[k] = v
		}
	}
	return val, nil
}
