// Code generated by hand. DO NOT EDIT.

package a

func g() {   
    _ = 1 
}
